package utils

func StrPtr(s string) *string {
	return &s
}
