package issue

// ordered is an insertion-ordered multimap: keys keep the order in which
// they were first added, values keep append order.
type ordered struct {
	keys  []string
	index map[string]int
	vals  [][]Finding
}

func newOrdered(hint int) *ordered {
	return &ordered{
		keys:  make([]string, 0, hint),
		index: make(map[string]int, hint),
		vals:  make([][]Finding, 0, hint),
	}
}

func (o *ordered) add(key string, f Finding) {
	i, ok := o.index[key]
	if !ok {
		i = len(o.keys)
		o.index[key] = i
		o.keys = append(o.keys, key)
		o.vals = append(o.vals, nil)
	}
	o.vals[i] = append(o.vals[i], f)
}

func (o *ordered) len() int { return len(o.keys) }

// each visits keys in first-seen order.
func (o *ordered) each(fn func(key string, vals []Finding)) {
	for i, k := range o.keys {
		fn(k, o.vals[i])
	}
}
