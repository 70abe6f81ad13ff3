package feerouter

import (
	"crypto/ed25519"

	"github.com/code-payments/fee-router/pkg/solana"
)

type SolSplitInstructionArgs = SplitInstructionArgs

type SolSplitInstructionAccounts struct {
	// Debited through the system program, which requires its signature
	Source         ed25519.PublicKey
	User           ed25519.PublicKey
	PlatformWallet ed25519.PublicKey
}

func NewSolSplitInstruction(
	accounts *SolSplitInstructionAccounts,
	args *SolSplitInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: encodeSplitArgs(InstructionTypeSolSplit, args),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Source,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.User,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.PlatformWallet,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}
