package model

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
