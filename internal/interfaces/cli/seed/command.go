package seed

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/davomat-inc/davomat/internal/application/auth/usecases"
	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/infrastructure/database"
	"github.com/davomat-inc/davomat/internal/infrastructure/repository"
	"github.com/davomat-inc/davomat/internal/interfaces/cli/bootstrap"
)

var (
	phone              string
	password           string
	mustChangePassword bool
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed initial data",
	}

	admin := &cobra.Command{
		Use:   "admin",
		Short: "Create the first administrator",
		Long:  `Create an ADMIN account with the given phone. Does nothing when the phone is already registered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), *opts)
		},
	}
	admin.Flags().StringVar(&phone, "phone", "998900000001", "Phone of the administrator")
	admin.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	admin.Flags().BoolVar(&mustChangePassword, "must-change-password", false, "Require a password change on first login")

	cmd.AddCommand(admin)
	return cmd
}

func runAdmin(ctx context.Context, opts bootstrap.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	_, log, err := bootstrap.OpenDatabase(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	pwd := password
	if pwd == "" {
		pwd, err = readPassword()
		if err != nil {
			return err
		}
	}

	uc := usecases.NewSeedAdminUseCase(
		repository.NewUserRepository(database.Get(), log),
		auth.NewArgon2PasswordHasher(auth.DefaultArgon2Params),
		log,
	)
	result, err := uc.Execute(ctx, usecases.SeedAdminCommand{
		Phone:              phone,
		Password:           pwd,
		MustChangePassword: mustChangePassword,
	})
	if err != nil {
		return err
	}

	if result.Created {
		fmt.Printf("Admin %s created\n", result.UserID)
	} else {
		fmt.Printf("Admin %s already exists\n", result.UserID)
	}
	return nil
}

// readPassword prompts without echo on a terminal and reads one line from
// piped stdin otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
