package record

// Builder is a Visitor that assembles generic Go values:
// map[string]any for objects, []any for arrays, int64/uint64 for leaves.
// Key order is not preserved; use JSONWriter where it matters.
type Builder struct {
	stack []frame
	root  any
}

type frame struct {
	obj map[string]any
	arr []any
	key string
}

func (b *Builder) Result() any { return b.root }

func (b *Builder) put(v any) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.obj != nil {
		top.obj[top.key] = v
		return
	}
	top.arr = append(top.arr, v)
}

func (b *Builder) BeginObject(n int) error {
	b.stack = append(b.stack, frame{obj: make(map[string]any, n)})
	return nil
}

func (b *Builder) BeginArray(n int) error {
	b.stack = append(b.stack, frame{arr: make([]any, 0, n)})
	return nil
}

func (b *Builder) pop() any {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.obj != nil {
		return top.obj
	}
	return top.arr
}

func (b *Builder) EndObject() error { b.put(b.pop()); return nil }
func (b *Builder) EndArray() error  { b.put(b.pop()); return nil }

func (b *Builder) Key(k string) error {
	b.stack[len(b.stack)-1].key = k
	return nil
}

func (b *Builder) Int(v int64) error   { b.put(v); return nil }
func (b *Builder) Uint(v uint64) error { b.put(v); return nil }

// Interchange converts t into generic Go values.
func Interchange(t *Tree) (map[string]any, error) {
	var b Builder
	if err := Emit(t, &b); err != nil {
		return nil, err
	}
	m, _ := b.Result().(map[string]any)
	return m, nil
}
