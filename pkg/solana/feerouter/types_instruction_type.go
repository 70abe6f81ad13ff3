package feerouter

type InstructionType uint8

const (
	InstructionTypeSplit      InstructionType = 0
	InstructionTypeSolSplit   InstructionType = 1
	InstructionTypeInitialize InstructionType = 255
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeSplit:
		return "split"
	case InstructionTypeSolSplit:
		return "sol_split"
	case InstructionTypeInitialize:
		return "initialize"
	}
	return "unknown"
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}
func getInstructionType(src []byte, dst *InstructionType, offset *int) {
	*dst = InstructionType(src[*offset])
	*offset += 1
}
