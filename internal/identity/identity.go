// Package identity groups uploaded resume and audio files into candidate
// buckets using filename heuristics.
//
// The matching is best-effort: it carries no confidence value, and ties are
// broken purely by encounter order (resume insertion order).
package identity

import (
	"path"
	"strings"
)

// minPartialWordLength is the shortest token allowed to take part in
// substring matching.
const minPartialWordLength = 3

var noiseTokens = map[string]struct{}{
	"resume":    {},
	"cv":        {},
	"interview": {},
	"audio":     {},
	"recording": {},
}

// Artifact is one uploaded file.
type Artifact struct {
	Filename string
	Data     []byte
}

// Bucket is a single candidate identity. At least one artifact is always set.
type Bucket struct {
	Key    string
	Resume *Artifact
	Audio  *Artifact
}

// Buckets is an insertion-ordered collection of buckets.
type Buckets struct {
	order []string
	byKey map[string]*Bucket
}

func newBuckets() *Buckets {
	return &Buckets{byKey: make(map[string]*Bucket)}
}

// Len returns the number of buckets.
func (b *Buckets) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// Keys returns bucket keys in insertion order.
func (b *Buckets) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, len(b.order))
	copy(keys, b.order)
	return keys
}

// Get returns the bucket stored under key.
func (b *Buckets) Get(key string) (*Bucket, bool) {
	if b == nil {
		return nil, false
	}
	bucket, ok := b.byKey[key]
	return bucket, ok
}

// Items returns the buckets in insertion order.
func (b *Buckets) Items() []*Bucket {
	if b == nil {
		return nil
	}
	items := make([]*Bucket, 0, len(b.order))
	for _, key := range b.order {
		items = append(items, b.byKey[key])
	}
	return items
}

func (b *Buckets) upsert(key string) *Bucket {
	if bucket, ok := b.byKey[key]; ok {
		return bucket
	}
	bucket := &Bucket{Key: key}
	b.byKey[key] = bucket
	b.order = append(b.order, key)
	return bucket
}

// Resolve groups resumes and audio recordings into candidate buckets.
//
// Every resume creates or replaces the bucket under its normalized name. Each
// audio file then attaches to the first bucket found by, in order: exact key
// equality, a shared whole word, or a substring relation between two words of
// at least three characters. Unmatched audio gets its own bucket.
func Resolve(resumes, audio []Artifact) *Buckets {
	buckets := newBuckets()

	for i := range resumes {
		resume := resumes[i]
		buckets.upsert(Normalize(resume.Filename)).Resume = &resume
	}

	for i := range audio {
		recording := audio[i]
		key := Normalize(recording.Filename)

		target := buckets.match(key)
		if target == nil {
			target = buckets.upsert(key)
		}
		target.Audio = &recording
	}

	return buckets
}

func (b *Buckets) match(key string) *Bucket {
	if bucket, ok := b.byKey[key]; ok {
		return bucket
	}

	words := strings.Fields(key)
	if len(words) == 0 {
		return nil
	}

	for _, candidate := range b.order {
		if sharesWord(words, strings.Fields(candidate)) {
			return b.byKey[candidate]
		}
	}

	for _, candidate := range b.order {
		if sharesPartialWord(words, strings.Fields(candidate)) {
			return b.byKey[candidate]
		}
	}

	return nil
}

// Normalize derives the matching key from a filename: path and extension are
// dropped, noise tokens (resume, cv, interview, audio, recording) bounded by
// separators are removed, underscore and dash runs become single spaces and
// the result is lowercased.
func Normalize(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))

	tokens := strings.FieldsFunc(name, isSeparator)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		lower := strings.ToLower(token)
		if _, noise := noiseTokens[lower]; noise {
			continue
		}
		kept = append(kept, lower)
	}

	return strings.TrimSpace(strings.Join(kept, " "))
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func sharesWord(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	for _, w := range a {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

func sharesPartialWord(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if partialWordMatch(x, y) {
				return true
			}
		}
	}
	return false
}

func partialWordMatch(a, b string) bool {
	if len(a) < minPartialWordLength || len(b) < minPartialWordLength {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
