package dynamics

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// nm packs a (degree, order) pair into a map key.
type nm struct{ n, m int }

// MapStorage is a minimal in-memory CoefficientStorage backed by a map.
// This is a test-fixture loader, not a production gravity-coefficient file
// parser (EGM96/JGM-3 file formats and their header conventions are out of
// scope per spec §1's "gravity-coefficient file parsers" exclusion); it
// exists so unit tests can exercise Harmonics without a real coefficient
// file.
type MapStorage struct {
	coeffs    map[nm][2]float64
	maxDegree int
	maxOrder  int
}

var _ CoefficientStorage = (*MapStorage)(nil)

// NewMapStorage returns an empty MapStorage populated to (maxDegree,
// maxOrder); any (n, m) not explicitly set via Set reads back as (0, 0)
// per spec §4.7's "failure: ... those terms contribute zero; no error is
// raised".
func NewMapStorage(maxDegree, maxOrder int) *MapStorage {
	return &MapStorage{
		coeffs:    make(map[nm][2]float64),
		maxDegree: maxDegree,
		maxOrder:  maxOrder,
	}
}

// Set stores the coefficient pair for (n, m).
func (s *MapStorage) Set(n, m int, c, sVal float64) {
	s.coeffs[nm{n, m}] = [2]float64{c, sVal}
}

// CS implements CoefficientStorage.
func (s *MapStorage) CS(n, m int) (c, sVal float64) {
	if v, ok := s.coeffs[nm{n, m}]; ok {
		return v[0], v[1]
	}
	return 0, 0
}

// MaxDegree implements CoefficientStorage.
func (s *MapStorage) MaxDegree() int { return s.maxDegree }

// MaxOrder implements CoefficientStorage.
func (s *MapStorage) MaxOrder() int { return s.maxOrder }

// LoadCoefficients reads a minimal "n m C_nm S_nm" per-line text format per
// spec §6's harmonic coefficient file format, skipping blank lines and
// lines starting with '#'. It returns a MapStorage sized to the largest
// (n, m) actually read.
func LoadCoefficients(r io.Reader) (*MapStorage, error) {
	scanner := bufio.NewScanner(r)
	maxDegree, maxOrder := 0, 0
	type entry struct {
		n, m    int
		c, sVal float64
	}
	var entries []entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("harmonics: malformed line %q", line)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("harmonics: bad degree in %q: %w", line, err)
		}
		m, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("harmonics: bad order in %q: %w", line, err)
		}
		c, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("harmonics: bad C_nm in %q: %w", line, err)
		}
		sVal, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("harmonics: bad S_nm in %q: %w", line, err)
		}
		if n > maxDegree {
			maxDegree = n
		}
		if m > maxOrder {
			maxOrder = m
		}
		entries = append(entries, entry{n, m, c, sVal})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	store := NewMapStorage(maxDegree, maxOrder)
	for _, e := range entries {
		store.Set(e.n, e.m, e.c, e.sVal)
	}
	return store, nil
}
