package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// WeightedValue is a label and the share of document length that produced it.
type WeightedValue struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// WeightedValues accumulates weights per label, remembering the order in which
// labels were first seen. The zero value is ready to use.
type WeightedValues struct {
	entries []WeightedValue
	index   map[string]int
}

// NewWeightedValues builds an accumulator from entries in the given order.
func NewWeightedValues(entries ...WeightedValue) *WeightedValues {
	w := &WeightedValues{}
	for _, e := range entries {
		w.Add(e.Label, e.Weight)
	}
	return w
}

// Add adds weight to label, inserting it at the end on first sight.
func (w *WeightedValues) Add(label string, weight float64) {
	if w.index == nil {
		w.index = make(map[string]int)
	}
	if i, ok := w.index[label]; ok {
		w.entries[i].Weight += weight
		return
	}
	w.index[label] = len(w.entries)
	w.entries = append(w.entries, WeightedValue{Label: label, Weight: weight})
}

// Len returns the number of distinct labels.
func (w WeightedValues) Len() int {
	return len(w.entries)
}

// Weight returns the accumulated weight for label.
func (w WeightedValues) Weight(label string) (float64, bool) {
	i, ok := w.index[label]
	if !ok {
		return 0, false
	}
	return w.entries[i].Weight, true
}

// Entries returns a copy of the entries in insertion order.
func (w WeightedValues) Entries() []WeightedValue {
	out := make([]WeightedValue, len(w.entries))
	copy(out, w.entries)
	return out
}

// Total sums all weights.
func (w WeightedValues) Total() float64 {
	var total float64
	for _, e := range w.entries {
		total += e.Weight
	}
	return total
}

// Top returns up to n entries ordered by weight descending. Equal weights keep
// insertion order, so the label seen first wins a tie.
func (w WeightedValues) Top(n int) []WeightedValue {
	if n <= 0 || len(w.entries) == 0 {
		return nil
	}
	sorted := w.Entries()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Clone returns an independent copy.
func (w WeightedValues) Clone() *WeightedValues {
	return NewWeightedValues(w.entries...)
}

// MarshalJSON writes a label->weight object preserving insertion order.
func (w WeightedValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range w.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(e.Weight, 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a label->weight object keeping the order of its keys.
func (w *WeightedValues) UnmarshalJSON(data []byte) error {
	*w = WeightedValues{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("weighted values: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("weighted values: expected string key, got %v", tok)
		}
		var weight float64
		if err := dec.Decode(&weight); err != nil {
			return fmt.Errorf("weighted values: weight of %q: %w", label, err)
		}
		w.Add(label, weight)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// ValueCount is how many cohort members exhibit a value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts tallies values in first-seen order. The zero value is ready to use.
type ValueCounts struct {
	entries []ValueCount
	index   map[string]int
}

// Inc increments the count for value.
func (c *ValueCounts) Inc(value string) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[value]; ok {
		c.entries[i].Count++
		return
	}
	c.index[value] = len(c.entries)
	c.entries = append(c.entries, ValueCount{Value: value, Count: 1})
}

// Count returns the tally for value.
func (c ValueCounts) Count(value string) int {
	i, ok := c.index[value]
	if !ok {
		return 0
	}
	return c.entries[i].Count
}

// Entries returns a copy of the tallies in first-seen order.
func (c ValueCounts) Entries() []ValueCount {
	out := make([]ValueCount, len(c.entries))
	copy(out, c.entries)
	return out
}

// Total sums all tallies.
func (c ValueCounts) Total() int {
	total := 0
	for _, e := range c.entries {
		total += e.Count
	}
	return total
}

// MarshalJSON writes a value->count object preserving first-seen order.
func (c ValueCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
