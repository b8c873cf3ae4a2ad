package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 16
	nameMinLength     = 2
	nameMaxLength     = 128

	passwordPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

var (
	namePattern = regexp.MustCompile("^\\p{L}[\\p{L}\\p{M}.\\-`' ]*$")
	validate    = validator.New()
)

// ValidatePassword trims raw and checks it against the password policy. The
// trimmed password is returned on success.
func ValidatePassword(raw string) (string, error) {
	password := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(password); n < passwordMinLength || n > passwordMaxLength {
		return "", ErrIncorrectPasswordLength
	}

	var hasUpper, hasLower, hasDigit, hasPunct bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r < utf8.RuneSelf && strings.ContainsRune(passwordPunctuation, r):
			hasPunct = true
		default:
			return "", ErrIncorrectPasswordChars
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasPunct {
		return "", ErrPasswordIsWeak
	}
	return password, nil
}

// ValidatePhone normalizes raw to E.164. A nil input passes through. Numbers
// written in the domestic form with a leading 8 or 7 are read as +7.
func ValidatePhone(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	phone := strings.TrimSpace(*raw)
	if strings.HasPrefix(phone, "8") || strings.HasPrefix(phone, "7") {
		phone = "+7" + phone[1:]
	}

	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return nil, ErrPhoneNotParsable
	}
	if !phonenumbers.IsValidNumber(num) {
		return nil, ErrPhoneNotValid
	}
	out := phonenumbers.Format(num, phonenumbers.E164)
	return &out, nil
}

// ValidateName trims raw and accepts personal names in any script.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(name); n < nameMinLength || n > nameMaxLength {
		return "", ErrInvalidName
	}
	if !namePattern.MatchString(name) {
		return "", ErrInvalidName
	}
	return name, nil
}

// ValidateEmail trims raw and checks the address syntax.
func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if err := validate.Var(email, "required,email,max=256"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}
