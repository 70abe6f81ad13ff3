package feerouter

import (
	"crypto/ed25519"

	"github.com/code-payments/fee-router/pkg/solana"
)

type SplitInstructionArgs struct {
	UserAmount  uint64
	PlatformFee uint64
}

type SplitInstructionAccounts struct {
	Source               ed25519.PublicKey
	User                 ed25519.PublicKey
	PlatformWallet       ed25519.PublicKey
	Mint                 ed25519.PublicKey
	UserTokenAccount     ed25519.PublicKey
	PlatformTokenAccount ed25519.PublicKey
}

// NewSplitInstructionArgsFromTotal splits total at PlatformFeeBps
func NewSplitInstructionArgsFromTotal(total uint64) *SplitInstructionArgs {
	split, _ := ComputeSplit(total, PlatformFeeBps)
	return &SplitInstructionArgs{
		UserAmount:  split.UserAmount,
		PlatformFee: split.PlatformFee,
	}
}

func NewSplitInstruction(
	accounts *SplitInstructionAccounts,
	args *SplitInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: encodeSplitArgs(InstructionTypeSplit, args),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Source,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.User,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.PlatformWallet,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.PlatformTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_RENT_PUBKEY,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func encodeSplitArgs(instructionType InstructionType, args *SplitInstructionArgs) []byte {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1+SplitInstructionArgsSize)

	putInstructionType(data, instructionType, &offset)
	putUint64(data, args.UserAmount, &offset)
	putUint64(data, args.PlatformFee, &offset)

	return data
}
