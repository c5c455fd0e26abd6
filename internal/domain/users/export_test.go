package users

// SetPasswordChecker replaces the password comparison until the returned
// func is called.
func SetPasswordChecker(fn func(hash, password string) error) (restore func()) {
	prev := checkPassword
	checkPassword = fn
	return func() { checkPassword = prev }
}
