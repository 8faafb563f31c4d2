package policy

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/davomat-inc/davomat/internal/infrastructure/database"
	"github.com/davomat-inc/davomat/internal/infrastructure/permission"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/bootstrap"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

var (
	role     string
	resource string
	action   string
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage role permissions",
		Long: `Inspect and change the role permission rules stored in casbin_rule.
Running servers pick up changes on SIGHUP.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the rules of a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(*opts)
		},
	}
	list.Flags().StringVar(&role, "role", "", "Role (ADMIN, MANAGER, TEACHER, STUDENT)")
	_ = list.MarkFlagRequired("role")

	grant := &cobra.Command{
		Use:   "grant",
		Short: "Allow a role to perform an action on a resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChange(*opts, true)
		},
	}
	revoke := &cobra.Command{
		Use:   "revoke",
		Short: "Remove a rule from a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChange(*opts, false)
		},
	}
	for _, c := range []*cobra.Command{grant, revoke} {
		c.Flags().StringVar(&role, "role", "", "Role (ADMIN, MANAGER, TEACHER, STUDENT)")
		c.Flags().StringVar(&resource, "resource", "", "Resource (attendance, enrollment, user_sessions)")
		c.Flags().StringVar(&action, "action", "", "Action (read, write, delete)")
		_ = c.MarkFlagRequired("role")
		_ = c.MarkFlagRequired("resource")
		_ = c.MarkFlagRequired("action")
	}

	cmd.AddCommand(list, grant, revoke)
	return cmd
}

// Rule is a role, resource, action triple as typed on the command line.
type Rule struct {
	Role     string
	Resource string
	Action   string
}

// ParseRule normalizes and validates a rule.
func ParseRule(r, res, act string) (Rule, error) {
	parsed, ok := authorization.ParseUserRole(r)
	if !ok {
		return Rule{}, fmt.Errorf("unknown role %q", r)
	}
	res = strings.ToLower(strings.TrimSpace(res))
	switch res {
	case permission.ResourceAttendance, permission.ResourceEnrollment, permission.ResourceUserSessions:
	default:
		return Rule{}, fmt.Errorf("unknown resource %q", res)
	}
	act = strings.ToLower(strings.TrimSpace(act))
	switch act {
	case permission.ActionRead, permission.ActionWrite, permission.ActionDelete:
	default:
		return Rule{}, fmt.Errorf("unknown action %q", act)
	}
	return Rule{Role: string(parsed), Resource: res, Action: act}, nil
}

func openEnforcer(opts bootstrap.Options) (*permission.Enforcer, error) {
	_, log, err := bootstrap.OpenDatabase(opts)
	if err != nil {
		return nil, err
	}
	e, err := permission.NewEnforcer(database.Get(), log.Named("permission"))
	if err != nil {
		database.Close()
		return nil, err
	}
	return e, nil
}

func runList(opts bootstrap.Options) error {
	parsed, ok := authorization.ParseUserRole(role)
	if !ok {
		return fmt.Errorf("unknown role %q", role)
	}

	e, err := openEnforcer(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	rules, err := e.GetPermissionsForRole(string(parsed))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tRESOURCE\tACTION")
	for _, r := range rules {
		if len(r) < 3 {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r[0], r[1], r[2])
	}
	return w.Flush()
}

func runChange(opts bootstrap.Options, grant bool) error {
	rule, err := ParseRule(role, resource, action)
	if err != nil {
		return err
	}

	e, err := openEnforcer(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	if grant {
		err = e.AddPolicy(rule.Role, rule.Resource, rule.Action)
	} else {
		err = e.RemovePolicy(rule.Role, rule.Resource, rule.Action)
	}
	if err != nil {
		return err
	}

	verb := "granted"
	if !grant {
		verb = "revoked"
	}
	fmt.Printf("%s %s %s %s; send SIGHUP to running servers to apply\n", verb, rule.Role, rule.Resource, rule.Action)
	return nil
}
