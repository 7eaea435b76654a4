// Package gen writes the synthetic test files used when no data directory
// exists yet.
package gen

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	letters = alphanumeric[:52]
	upper   = alphanumeric[26:52]
)

// DefaultWords is the vocabulary of the words_* files.
var DefaultWords = []string{
	"apple", "banana", "cherry", "date", "elderberry",
	"fig", "grape", "honeydew", "kiwi", "lemon",
}

type Config struct {
	Dir  string
	Seed uint64

	// NumberSizes sizes the numbers_, sequential_ and duplicates_ files.
	NumberSizes []int
	// TextSizes sizes the random_strings_, words_, uuids_, json_data_ and
	// csv_data_ files.
	TextSizes []int

	Words []string
	// Start is the timestamp of the first JSON record; each following record
	// is one second later.
	Start time.Time
}

func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		Seed:        1,
		NumberSizes: []int{100, 1000, 10000, 100000},
		TextSizes:   []int{100, 1000, 5000},
		Words:       DefaultWords,
		Start:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

type generator struct {
	cfg   Config
	rng   *rand.Rand
	src   *rand.ChaCha8
	files []string
}

// Generate writes every file family into cfg.Dir, creating it if needed, and
// returns the written file names in creation order. The same Config always
// produces the same bytes.
func Generate(cfg Config) ([]string, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("output dir must not be empty")
	}
	if len(cfg.Words) == 0 {
		cfg.Words = DefaultWords
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], cfg.Seed)
	src := rand.NewChaCha8(seed)
	g := &generator{cfg: cfg, rng: rand.New(src), src: src}

	steps := []func() error{g.numbers, g.text, g.combined, g.edgeCases}
	for _, step := range steps {
		if err := step(); err != nil {
			return g.files, err
		}
	}
	return g.files, nil
}

// write creates name in the output dir and hands a buffered writer to fill.
func (g *generator) write(name string, fill func(w *bufio.Writer) error) error {
	f, err := os.Create(filepath.Join(g.cfg.Dir, name))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	g.files = append(g.files, name)
	return nil
}

// lines writes n lines produced by next, separated but not terminated by
// newlines.
func lines(n int, next func(i int) string) func(*bufio.Writer) error {
	return func(w *bufio.Writer) error {
		for i := 0; i < n; i++ {
			if i > 0 {
				w.WriteByte('\n')
			}
			if _, err := w.WriteString(next(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

func (g *generator) intRange(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *generator) randomString(alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[g.rng.IntN(len(alphabet))]
	}
	return string(b)
}

func (g *generator) numbers() error {
	for _, n := range g.cfg.NumberSizes {
		err := g.write(fmt.Sprintf("numbers_%d.txt", n), lines(n, func(int) string {
			return strconv.Itoa(g.intRange(-1_000_000, 1_000_000))
		}))
		if err != nil {
			return err
		}
		err = g.write(fmt.Sprintf("sequential_%d.txt", n), lines(n, strconv.Itoa))
		if err != nil {
			return err
		}
		err = g.write(fmt.Sprintf("duplicates_%d.txt", n), lines(n, func(int) string {
			return strconv.Itoa(g.intRange(1, 100))
		}))
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) text() error {
	for _, n := range g.cfg.TextSizes {
		err := g.write(fmt.Sprintf("random_strings_%d.txt", n), func(w *bufio.Writer) error {
			for i := 0; i < n; i++ {
				w.WriteString(g.randomString(alphanumeric, g.intRange(3, 50)))
				if err := w.WriteByte('\n'); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		err = g.write(fmt.Sprintf("words_%d.txt", n), lines(n, func(int) string {
			return g.cfg.Words[g.rng.IntN(len(g.cfg.Words))]
		}))
		if err != nil {
			return err
		}
		err = g.write(fmt.Sprintf("uuids_%d.txt", n), func(w *bufio.Writer) error {
			for i := 0; i < n; i++ {
				id, err := uuid.NewRandomFromReader(g.src)
				if err != nil {
					return err
				}
				w.WriteString(id.String())
				if err := w.WriteByte('\n'); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type record struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
}

func (g *generator) combined() error {
	for _, n := range g.cfg.TextSizes {
		recs := make([]record, n)
		for i := range recs {
			recs[i] = record{
				ID:        g.intRange(1, 100_000),
				Name:      g.randomString(letters, 10),
				Value:     g.rng.Float64(),
				Timestamp: g.cfg.Start.Add(time.Duration(i) * time.Second).Format("2006-01-02 15:04:05.000000"),
			}
		}
		err := g.write(fmt.Sprintf("json_data_%d.json", n), func(w *bufio.Writer) error {
			return json.NewEncoder(w).Encode(recs)
		})
		if err != nil {
			return err
		}

		err = g.write(fmt.Sprintf("csv_data_%d.csv", n), func(w *bufio.Writer) error {
			cw := csv.NewWriter(w)
			cw.Write([]string{"id", "name", "value", "active"})
			for i := 0; i < n; i++ {
				v := math.Round((10+90*g.rng.Float64())*100) / 100
				active := "False"
				if g.rng.IntN(2) == 1 {
					active = "True"
				}
				cw.Write([]string{
					strconv.Itoa(i + 1),
					g.randomString(upper, 5),
					strconv.FormatFloat(v, 'f', -1, 64),
					active,
				})
			}
			cw.Flush()
			return cw.Error()
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// edgeCases writes an empty file, very long lines (one of them blank after
// trimming) and numbers beyond the 64-bit integer range.
func (g *generator) edgeCases() error {
	if err := g.write("empty.txt", func(*bufio.Writer) error { return nil }); err != nil {
		return err
	}
	err := g.write("long_strings.txt", func(w *bufio.Writer) error {
		for _, l := range []struct {
			c byte
			n int
		}{{'a', 10_000}, {'b', 50_000}, {' ', 100_000}} {
			for i := 0; i < l.n; i++ {
				w.WriteByte(l.c)
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	big := []string{
		"18446744073709551616",
		strconv.FormatInt(math.MinInt64, 10),
		strconv.FormatFloat(math.Pi, 'g', -1, 64),
		strconv.FormatFloat(math.MaxFloat64, 'g', -1, 64),
	}
	return g.write("big_numbers.txt", lines(len(big), func(i int) string { return big[i] }))
}
