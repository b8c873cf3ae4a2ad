package auth

// SignupForm is the raw signup input.
type SignupForm struct {
	FirstName  string
	LastName   string
	MiddleName *string
	Email      string
	Phone      *string
	Password   string
}

// Normalize validates and rewrites the contact and name fields in place. The
// password is left for the service, which checks it after the email lookup.
func (f *SignupForm) Normalize() error {
	var err error
	if f.FirstName, err = ValidateName(f.FirstName); err != nil {
		return err
	}
	if f.LastName, err = ValidateName(f.LastName); err != nil {
		return err
	}
	if f.MiddleName != nil {
		middle, err := ValidateName(*f.MiddleName)
		if err != nil {
			return err
		}
		f.MiddleName = &middle
	}
	if f.Email, err = ValidateEmail(f.Email); err != nil {
		return err
	}
	if f.Phone, err = ValidatePhone(f.Phone); err != nil {
		return err
	}
	return nil
}

// LoginForm carries exactly one of Email or Phone plus the password.
type LoginForm struct {
	Email    *string
	Phone    *string
	Password string
}

// Normalize checks that exactly one contact field is set, validates it and
// applies the signup password rules to the password.
func (f *LoginForm) Normalize() error {
	if (f.Email == nil) == (f.Phone == nil) {
		return ErrInvalidRequest
	}
	if f.Email != nil {
		email, err := ValidateEmail(*f.Email)
		if err != nil {
			return err
		}
		f.Email = &email
	}
	phone, err := ValidatePhone(f.Phone)
	if err != nil {
		return err
	}
	f.Phone = phone
	if f.Password, err = ValidatePassword(f.Password); err != nil {
		return err
	}
	return nil
}
