package config

import "strings"

// ToScreamingSnakeCase transforms a field name into its environment variable form,
// `CustomerId` becomes `CUSTOMER_ID`.
func ToScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return in
	}

	var sb strings.Builder
	sb.Grow(len(in) + len(in)/3)

	for i := 0; i < len(in); i++ {
		b := in[i]
		write := true
		separate := false

		switch {
		case 'a' <= b && b <= 'z':
			b -= 'a' - 'A'
		case 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
			separate = true
		case b == '_' || b == '-':
			write = false
			separate = true
		}

		if i > 0 && separate {
			sb.WriteByte('_')
		}
		if write {
			sb.WriteByte(b)
		}
	}

	return sb.String()
}
