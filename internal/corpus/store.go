package corpus

import (
	"fmt"
)

// ReferenceID formats the canonical "{chapter}.{verse}" record id
func ReferenceID(chapter, verse int) string {
	return fmt.Sprintf("%d.%d", chapter, verse)
}

// VerseRecord is a single verse with its display and source text
type VerseRecord struct {
	ID              string `json:"id" db:"id"`
	Chapter         int    `json:"chapter" db:"chapter"`
	Verse           int    `json:"verse" db:"verse"`
	Text            string `json:"text" db:"text"`
	Translation     string `json:"translation" db:"translation"`
	Transliteration string `json:"transliteration,omitempty" db:"transliteration"`
	WordMeanings    string `json:"word_meanings,omitempty" db:"word_meanings"`
}

// DisplayText returns the translation, falling back to the source text
func (r VerseRecord) DisplayText() string {
	if r.Translation != "" {
		return r.Translation
	}
	return r.Text
}

// Store holds the immutable verse corpus and its precomputed embeddings.
// Row i of embeddings belongs to record i. A Store is built once at startup
// and is read-only afterwards, so it is safe to share across request
// handlers without locking.
type Store struct {
	records      []VerseRecord
	embeddings   [][]float64
	displayTexts []string
	dimension    int
}

// NewStore validates the records and embeddings and builds a store.
// Misaligned or malformed artifacts are a fatal condition: the caller
// must not serve from an inconsistent corpus.
func NewStore(records []VerseRecord, embeddings [][]float64) (*Store, error) {
	if len(records) != len(embeddings) {
		return nil, fmt.Errorf("corpus misaligned: %d metadata records but %d embeddings", len(records), len(embeddings))
	}

	dimension := 0
	if len(embeddings) > 0 {
		dimension = len(embeddings[0])
		if dimension == 0 {
			return nil, fmt.Errorf("corpus embedding dimension is zero")
		}
	}

	displayTexts := make([]string, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %d has an empty id", i)
		}
		if r.Chapter <= 0 || r.Verse <= 0 {
			return nil, fmt.Errorf("record %s has invalid reference %d.%d", r.ID, r.Chapter, r.Verse)
		}
		if r.Text == "" && r.Translation == "" {
			return nil, fmt.Errorf("record %s has neither text nor translation", r.ID)
		}
		if len(embeddings[i]) != dimension {
			return nil, fmt.Errorf("record %s embedding has dimension %d, corpus dimension is %d", r.ID, len(embeddings[i]), dimension)
		}
		displayTexts[i] = r.DisplayText()
	}

	return &Store{
		records:      records,
		embeddings:   embeddings,
		displayTexts: displayTexts,
		dimension:    dimension,
	}, nil
}

// Len returns the number of verses in the corpus
func (s *Store) Len() int {
	return len(s.records)
}

// Dimension returns the embedding dimension of the corpus
func (s *Store) Dimension() int {
	return s.dimension
}

// Record returns the verse at corpus index i
func (s *Store) Record(i int) VerseRecord {
	return s.records[i]
}

// Embeddings returns the corpus embedding matrix, row-aligned with the records.
// Callers must treat the returned slices as read-only.
func (s *Store) Embeddings() [][]float64 {
	return s.embeddings
}

// DisplayTexts returns the display text of every record in corpus order
func (s *Store) DisplayTexts() []string {
	return s.displayTexts
}

// FindByReference scans the corpus for a verse with the given chapter and
// verse numbers
func (s *Store) FindByReference(chapter, verse int) (VerseRecord, bool) {
	for _, r := range s.records {
		if r.Chapter == chapter && r.Verse == verse {
			return r, true
		}
	}
	return VerseRecord{}, false
}
