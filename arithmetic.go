package ruleengine

// arithAdd implements Add: numeric addition with Int wraparound and Int/
// Float promotion, string concatenation for String+String, Null for any
// other pairing (including mixed string/non-string).
func arithAdd(a, b Value) Value {
	if a.Kind() == KindString && b.Kind() == KindString {
		return String(a.AsString() + b.AsString())
	}
	return arithBinary(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

// arithBinary applies intOp when both operands are Int (wraparound, since
// Go's int64 arithmetic already wraps), promotes to floatOp when either
// operand is Float, and returns Null for any other pairing.
func arithBinary(a, b Value, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) Value {
	switch {
	case a.Kind() == KindInt && b.Kind() == KindInt:
		return Int(intOp(a.AsInt(), b.AsInt()))
	case a.IsNumeric() && b.IsNumeric():
		return Float(floatOp(a.AsFloat(), b.AsFloat()))
	default:
		return Null
	}
}

func arithDiv(a, b Value) Value {
	switch {
	case a.Kind() == KindInt && b.Kind() == KindInt:
		if b.AsInt() == 0 {
			return Null
		}
		return Int(a.AsInt() / b.AsInt())
	case a.IsNumeric() && b.IsNumeric():
		if b.AsFloat() == 0 {
			return Null
		}
		return Float(a.AsFloat() / b.AsFloat())
	default:
		return Null
	}
}

func arithMod(a, b Value) Value {
	switch {
	case a.Kind() == KindInt && b.Kind() == KindInt:
		if b.AsInt() == 0 {
			return Null
		}
		return Int(a.AsInt() % b.AsInt())
	case a.IsNumeric() && b.IsNumeric():
		bf := b.AsFloat()
		if bf == 0 {
			return Null
		}
		af := a.AsFloat()
		return Float(af - bf*float64(int64(af/bf)))
	default:
		return Null
	}
}

func arithNeg(a Value) Value {
	switch a.Kind() {
	case KindInt:
		return Int(-a.AsInt())
	case KindFloat:
		return Float(-a.AsFloat())
	default:
		return Null
	}
}

// compareValues returns a negative, zero, or positive int ordering a
// against b, and whether the pair is comparable at all. Gt/Lt must treat
// an incomparable pair as false regardless of the returned ordering.
func compareValues(a, b Value) (int, bool) {
	switch {
	case a.Kind() == KindString && b.Kind() == KindString:
		as, bs := a.AsString(), b.AsString()
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	case a.IsNumeric() && b.IsNumeric():
		af, bf := a.AsFloat(), b.AsFloat()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}
