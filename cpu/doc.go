// Package cpu implements the instruction set, assembler and execution engine
// of the svm stack machine.
//
// The machine has eight 16-bit registers (A, B, C, M, SP, PC, BP, Flags), a
// byte addressable memory reached through memory.Memory, and an upward
// growing stack addressed by SP. Instructions are single 16-bit little-endian
// words: the low byte selects the operation and the high byte carries its
// operand. The Signal instruction traps into host code registered with
// Machine.DefineHandler.
//
// The assembler translates one mnemonic per line into instruction words in a
// single pass, with compile-time $(...) constant expressions.
package cpu
