package formcheck

// Field names of the contact form.
const (
	ContactName    = "name"
	ContactEmail   = "email"
	ContactPhone   = "phone"
	ContactMessage = "message"
)

// Expressions used by the contact form rules.
const (
	// NameSpacingExpression matches words separated by exactly one or by three
	// or more whitespace characters. Used inversely, names may only join words
	// directly or with exactly two whitespace characters.
	NameSpacingExpression = `\w\s\w|\w\s\s\s+\w`

	EmailExpression = `^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`

	PhoneExpression = `[\+|0]?\d{3}\(?\d{2}\)?[\s|\-]?\d{3}[\s|\-]?\d{3}[\s|\-]?\d{2}`

	BadLanguageExpression = `(?i)(?:^|\W)(ugly|dumm|stupid|pig|ignorant)(?:$|\W)`
)

// NameRules returns the rules of the contact form's name field.
func NameRules() []Rule {
	return []Rule{
		MustLength("Name is too short", MinLength(2)),
		MustPattern(
			"Name must have explicit 0 or 2 white spaces between words",
			MustCompilePattern(NameSpacingExpression),
			Inverse(),
		),
	}
}

// EmailRules returns the rules of the contact form's email field.
func EmailRules() []Rule {
	return []Rule{
		MustLength("Email length must be at least 5 and at most 50", MinLength(5), MaxLength(50)),
		MustPattern("Email format is incorrect", MustCompilePattern(EmailExpression)),
	}
}

// PhoneRules returns the rules of the contact form's phone field.
func PhoneRules() []Rule {
	return []Rule{
		MustLength("Phone is too short", MinLength(12)),
		MustPattern("Phone format is incorrect", MustCompilePattern(PhoneExpression)),
	}
}

// MessageRules returns the rules of the contact form's message field.
func MessageRules() []Rule {
	return []Rule{
		MustLength("Message is too short", MinLength(10)),
		MustPattern(
			"Message must not include bad language: ugly, dumm, stupid, pig, ignorant",
			MustCompilePattern(BadLanguageExpression),
			Inverse(),
		),
	}
}

// ContactForm returns the field specs of the contact form: name, email,
// phone and message, in that order.
func ContactForm() []FieldSpec {
	return []FieldSpec{
		Field(ContactName, NameRules()...),
		Field(ContactEmail, EmailRules()...),
		Field(ContactPhone, PhoneRules()...),
		Field(ContactMessage, MessageRules()...),
	}
}
