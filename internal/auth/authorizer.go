package auth

// Authorizer decides whether a login may claim the admin capability.
// The passphrase model is a deliberate client-only trust boundary; a
// real backend check could be substituted here without touching callers.
type Authorizer interface {
	GrantAdmin(passphrase string) bool
}

// PassphraseAuthorizer grants admin access on a constant-string
// passphrase compare. No hashing and no secrecy, a toy authorization
// model kept from the original design.
type PassphraseAuthorizer struct {
	passphrase string
}

func NewPassphraseAuthorizer(passphrase string) *PassphraseAuthorizer {
	return &PassphraseAuthorizer{passphrase: passphrase}
}

func (a *PassphraseAuthorizer) GrantAdmin(passphrase string) bool {
	return passphrase == a.passphrase
}
