package feerouter

import (
	"github.com/code-payments/fee-router/pkg/solana"
)

// Role is the set of requirements placed on an account an instruction
// expects at a given position
type Role uint8

const (
	// Debited by the instruction, must be writable
	RoleSource Role = 1 << iota

	// Must have signed the invocation
	RoleSigner

	// Credited by the instruction, must be writable
	RoleRecipient

	// Must be writable
	RoleWritable

	// Read only, never mutated
	RoleReference
)

func (r Role) requiresSignature() bool {
	return r&RoleSigner != 0
}

func (r Role) requiresWritable() bool {
	return r&(RoleSource|RoleRecipient|RoleWritable) != 0
}

type AccountRole struct {
	Name string
	Role Role
}

// AccountRoleSet is the ordered list of accounts an instruction expects.
// Accounts are matched by position. Up to MaxPassthrough trailing accounts
// required by the host, like sysvars and program ids, are accepted and
// ignored.
type AccountRoleSet struct {
	Roles          []AccountRole
	MaxPassthrough int
}

var (
	splitAccountRoles = &AccountRoleSet{
		Roles: []AccountRole{
			{Name: "source_token_account", Role: RoleSource},
			{Name: "user", Role: RoleSigner},
			{Name: "platform_wallet", Role: RoleReference},
			{Name: "token_mint", Role: RoleReference},
			{Name: "user_token_account", Role: RoleRecipient},
			{Name: "platform_token_account", Role: RoleRecipient},
		},
		MaxPassthrough: 2,
	}

	// The native source is debited directly, so its own signature is the
	// authorization for both transfers
	solSplitAccountRoles = &AccountRoleSet{
		Roles: []AccountRole{
			{Name: "source", Role: RoleSource | RoleSigner},
			{Name: "user", Role: RoleSigner | RoleRecipient},
			{Name: "platform_wallet", Role: RoleRecipient},
		},
	}

	initializeAccountRoles = &AccountRoleSet{
		MaxPassthrough: 4,
	}
)

// Validate checks the account count, then signatures, then writability
func (s *AccountRoleSet) Validate(accounts []solana.AccountMeta) error {
	if len(accounts) < len(s.Roles) || len(accounts) > len(s.Roles)+s.MaxPassthrough {
		return ErrAccountCountMismatch
	}

	for i, role := range s.Roles {
		if role.Role.requiresSignature() && !accounts[i].IsSigner {
			return newAccountError(ErrMissingRequiredSignature, role)
		}
	}

	for i, role := range s.Roles {
		if role.Role.requiresWritable() && !accounts[i].IsWritable {
			return newAccountError(ErrAccountNotWritable, role)
		}
	}

	return nil
}
