package kbin

// Writer wraps a growing byte slice, letting generated request encoders
// build up a wire payload with a fluent, allocation-light append style
// instead of threading `dst = AppendX(dst, ...)` by hand everywhere.
type Writer struct {
	Src []byte
}

func (w *Writer) Bool(v bool) { w.Src = AppendBool(w.Src, v) }
func (w *Writer) Int8(v int8) { w.Src = AppendInt8(w.Src, v) }
func (w *Writer) Int16(v int16) { w.Src = AppendInt16(w.Src, v) }
func (w *Writer) Int32(v int32) { w.Src = AppendInt32(w.Src, v) }
func (w *Writer) Int64(v int64) { w.Src = AppendInt64(w.Src, v) }
func (w *Writer) Float64(v float64) { w.Src = AppendFloat64(w.Src, v) }
func (w *Writer) UUID(v [16]byte) { w.Src = AppendUUID(w.Src, v) }
func (w *Writer) Uvarint(v uint32) { w.Src = AppendUvarint(w.Src, v) }
func (w *Writer) Varint(v int32) { w.Src = AppendVarint(w.Src, v) }
func (w *Writer) Varlong(v int64) { w.Src = AppendVarlong(w.Src, v) }

func (w *Writer) String(v string) { w.Src = AppendString(w.Src, v) }
func (w *Writer) NullableString(v *string) { w.Src = AppendNullableString(w.Src, v) }
func (w *Writer) CompactString(v string) { w.Src = AppendCompactString(w.Src, v) }
func (w *Writer) CompactNullableString(v *string) {
	w.Src = AppendCompactNullableString(w.Src, v)
}

func (w *Writer) Bytes(v []byte) { w.Src = AppendBytes(w.Src, v) }
func (w *Writer) NullableBytes(v []byte) { w.Src = AppendNullableBytes(w.Src, v) }
func (w *Writer) CompactBytes(v []byte) { w.Src = AppendCompactBytes(w.Src, v) }
func (w *Writer) CompactNullableBytes(v []byte) {
	w.Src = AppendCompactNullableBytes(w.Src, v)
}

func (w *Writer) ArrayLen(l int) { w.Src = AppendArrayLen(w.Src, l) }
func (w *Writer) CompactArrayLen(l int) { w.Src = AppendCompactArrayLen(w.Src, l) }

// EmptyTags appends a zero-length tagged field section. Generated structs
// call this at the end of every flexible-version message; this module does
// not yet produce any non-empty tagged fields on encode.
func (w *Writer) EmptyTags() { w.Src = AppendTags(w.Src) }
