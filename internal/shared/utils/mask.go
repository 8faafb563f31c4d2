package utils

// MaskPhone masks a phone number for safe logging.
// Example: "998900000001" -> "9989*****001"
func MaskPhone(phone string) string {
	if len(phone) <= 7 {
		return "***"
	}
	masked := []byte(phone)
	for i := 4; i < len(masked)-3; i++ {
		masked[i] = '*'
	}
	return string(masked)
}
