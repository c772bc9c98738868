package ruleengine

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// bytecodeMagic + bytecodeVersion form the 4-byte prefix of every
// serialized program: "RFE" (Rule Fraud Engine) followed by a single
// version byte, mismatches fail with ErrCompile per §6.
var bytecodeMagic = [3]byte{'R', 'F', 'E'}

const bytecodeVersion byte = 1

// serializeProgram encodes prog to the stable binary wire format: a
// 4-byte magic+version prefix, little-endian fixed-width integers,
// 32-bit length-prefixed strings, single-byte variant tags, and
// little-endian IEEE-754 floats.
func serializeProgram(prog *CompiledProgram) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(bytecodeMagic[:])
	buf.WriteByte(bytecodeVersion)

	writeUint32(&buf, uint32(len(prog.Rules)))
	for _, r := range prog.Rules {
		writeRule(&buf, r)
	}

	writeUint32(&buf, uint32(len(prog.Functions)))
	for _, fn := range orderedFunctions(prog.Functions) {
		writeFunction(&buf, fn)
	}

	return buf.Bytes(), nil
}

// deserializeProgram decodes a program previously produced by
// serializeProgram. A bad magic/version or truncated stream yields an
// ErrCompile CompilationError rather than a panic.
func deserializeProgram(data []byte) (*CompiledProgram, error) {
	r := bytes.NewReader(data)

	var prefix [3]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, newCompileError(0, 0, "truncated bytecode header")
	}
	if prefix != bytecodeMagic {
		return nil, newCompileError(0, 0, "bad bytecode magic")
	}
	version, err := r.ReadByte()
	if err != nil || version != bytecodeVersion {
		return nil, newCompileError(0, 0, "unsupported bytecode version")
	}

	nRules, err := readUint32(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated rule count")
	}
	rules := make([]*CompiledRule, 0, nRules)
	for i := uint32(0); i < nRules; i++ {
		rule, err := readRule(r)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	nFuncs, err := readUint32(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated function count")
	}
	functions := make(map[string]*CompiledFunction, nFuncs)
	for i := uint32(0); i < nFuncs; i++ {
		fn, err := readFunction(r)
		if err != nil {
			return nil, err
		}
		functions[fn.Name] = fn
	}

	return &CompiledProgram{Rules: rules, Functions: functions}, nil
}

func orderedFunctions(m map[string]*CompiledFunction) []*CompiledFunction {
	out := make([]*CompiledFunction, 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	// Deterministic on-disk order regardless of map iteration, so two
	// ToBytecode calls on the same CompiledProgram are byte-identical.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name > out[j].Name; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeInt32(buf *bytes.Buffer, v int32) { writeUint32(buf, uint32(v)) }

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeRule(buf *bytes.Buffer, r *CompiledRule) {
	writeString(buf, r.ID)
	writeInt32(buf, r.Priority)
	writeBool(buf, r.Enabled)
	writeCode(buf, r.Code)
}

func writeFunction(buf *bytes.Buffer, fn *CompiledFunction) {
	writeString(buf, fn.Name)
	writeUint32(buf, uint32(len(fn.Params)))
	for _, p := range fn.Params {
		writeString(buf, p)
	}
	writeCode(buf, fn.Code)
}

func writeCode(buf *bytes.Buffer, code []Instruction) {
	writeUint32(buf, uint32(len(code)))
	for _, instr := range code {
		writeInstruction(buf, instr)
	}
}

func writeInstruction(buf *bytes.Buffer, instr Instruction) {
	buf.WriteByte(byte(instr.Op))
	writeValue(buf, instr.Value)
	writeString(buf, instr.Name)
	writeInt64(buf, int64(instr.Addr))
	writeInt64(buf, int64(instr.NArgs))
	buf.WriteByte(byte(instr.ActionKind))
	writeString(buf, instr.CallName)
}

func writeValue(buf *bytes.Buffer, v Value) {
	buf.WriteByte(byte(v.Kind()))
	switch v.Kind() {
	case KindBool:
		writeBool(buf, v.AsBool())
	case KindInt:
		writeInt64(buf, v.AsInt())
	case KindFloat:
		writeFloat64(buf, v.AsFloat())
	case KindString:
		writeString(buf, v.AsString())
	case KindArray:
		items := v.AsArray()
		writeUint32(buf, uint32(len(items)))
		for _, item := range items {
			writeValue(buf, item)
		}
	case KindObject:
		obj := v.AsObject()
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		for i := 1; i < len(keys); i++ {
			for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
				keys[j-1], keys[j] = keys[j], keys[j-1]
			}
		}
		writeUint32(buf, uint32(len(keys)))
		for _, k := range keys {
			writeString(buf, k)
			writeValue(buf, obj[k])
		}
	}
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readInt32(r *bytes.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}

func readInt64(r *bytes.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func readFloat64(r *bytes.Reader) (float64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func readRule(r *bytes.Reader) (*CompiledRule, error) {
	id, err := readString(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated rule id")
	}
	priority, err := readInt32(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated rule priority")
	}
	enabled, err := readBool(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated rule enabled flag")
	}
	code, err := readCode(r)
	if err != nil {
		return nil, err
	}
	return &CompiledRule{ID: id, Priority: priority, Enabled: enabled, Code: code}, nil
}

func readFunction(r *bytes.Reader) (*CompiledFunction, error) {
	name, err := readString(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated function name")
	}
	nParams, err := readUint32(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated function param count")
	}
	params := make([]string, nParams)
	for i := range params {
		params[i], err = readString(r)
		if err != nil {
			return nil, newCompileError(0, 0, "truncated function param")
		}
	}
	code, err := readCode(r)
	if err != nil {
		return nil, err
	}
	return &CompiledFunction{Name: name, Params: params, Code: code}, nil
}

func readCode(r *bytes.Reader) ([]Instruction, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, newCompileError(0, 0, "truncated instruction count")
	}
	code := make([]Instruction, n)
	for i := range code {
		instr, err := readInstruction(r)
		if err != nil {
			return nil, err
		}
		code[i] = instr
	}
	return code, nil
}

func readInstruction(r *bytes.Reader) (Instruction, error) {
	opByte, err := r.ReadByte()
	if err != nil {
		return Instruction{}, newCompileError(0, 0, "truncated instruction opcode")
	}
	value, err := readValue(r)
	if err != nil {
		return Instruction{}, err
	}
	name, err := readString(r)
	if err != nil {
		return Instruction{}, newCompileError(0, 0, "truncated instruction name")
	}
	addr, err := readInt64(r)
	if err != nil {
		return Instruction{}, newCompileError(0, 0, "truncated instruction addr")
	}
	nargs, err := readInt64(r)
	if err != nil {
		return Instruction{}, newCompileError(0, 0, "truncated instruction nargs")
	}
	kindByte, err := r.ReadByte()
	if err != nil {
		return Instruction{}, newCompileError(0, 0, "truncated instruction action kind")
	}
	callName, err := readString(r)
	if err != nil {
		return Instruction{}, newCompileError(0, 0, "truncated instruction call name")
	}
	return Instruction{
		Op:         Op(opByte),
		Value:      value,
		Name:       name,
		Addr:       int(addr),
		NArgs:      int(nargs),
		ActionKind: ActionKind(kindByte),
		CallName:   callName,
	}, nil
}

func readValue(r *bytes.Reader) (Value, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return Null, newCompileError(0, 0, "truncated value kind")
	}
	switch Kind(kindByte) {
	case KindNull:
		return Null, nil
	case KindBool:
		b, err := readBool(r)
		if err != nil {
			return Null, newCompileError(0, 0, "truncated bool value")
		}
		return Bool(b), nil
	case KindInt:
		n, err := readInt64(r)
		if err != nil {
			return Null, newCompileError(0, 0, "truncated int value")
		}
		return Int(n), nil
	case KindFloat:
		f, err := readFloat64(r)
		if err != nil {
			return Null, newCompileError(0, 0, "truncated float value")
		}
		return Float(f), nil
	case KindString:
		s, err := readString(r)
		if err != nil {
			return Null, newCompileError(0, 0, "truncated string value")
		}
		return String(s), nil
	case KindArray:
		n, err := readUint32(r)
		if err != nil {
			return Null, newCompileError(0, 0, "truncated array length")
		}
		items := make([]Value, n)
		for i := range items {
			items[i], err = readValue(r)
			if err != nil {
				return Null, err
			}
		}
		return Array(items), nil
	case KindObject:
		n, err := readUint32(r)
		if err != nil {
			return Null, newCompileError(0, 0, "truncated object length")
		}
		fields := make(map[string]Value, n)
		for i := uint32(0); i < n; i++ {
			k, err := readString(r)
			if err != nil {
				return Null, newCompileError(0, 0, "truncated object key")
			}
			v, err := readValue(r)
			if err != nil {
				return Null, err
			}
			fields[k] = v
		}
		return Object(fields), nil
	default:
		return Null, newCompileError(0, 0, fmt.Sprintf("unknown value kind tag %d", kindByte))
	}
}
