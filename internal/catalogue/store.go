package catalogue

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/antzucaro/matchr"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"marketplace-recon/internal/fileio"
)

var ErrProductNotFound = errors.New("catalogue: product not found")

const dateLayout = "2006-01-02"

// duplicateWarnThreshold: Jaro-Winkler score above which two canonical names
// are flagged as likely duplicates on load.
const duplicateWarnThreshold = 0.95

// Store owns the product list and the price-history log for the process
// lifetime. Matching borrows read-only snapshots; UpdatePrice is the only
// mutation path and takes the write lock.
type Store struct {
	path string
	log  zerolog.Logger

	mu       sync.RWMutex
	products []Product
	history  []HistoryEntry
}

// Open loads the catalogue from path. A missing file is a logged error, not
// a fatal one: the store starts empty and every match comes back unmatched.
func Open(path string, logger zerolog.Logger) *Store {
	s := &Store{path: path, log: logger}

	f, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("catalogue file missing, starting empty")
		return s
	}
	defer f.Close()

	maps, err := fileio.ReadAnyMaps(f, path, 1)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("catalogue unreadable, starting empty")
		return s
	}

	for _, rec := range maps {
		p := productFromRecord(rec)
		if p.Name == "" {
			continue
		}
		s.products = append(s.products, p)
	}
	logger.Info().Int("products", len(s.products)).Msg("catalogue loaded")
	s.warnNearDuplicates()
	return s
}

func productFromRecord(rec map[string]string) Product {
	code := trimmed(rec["cms_product_code"])
	if code == "" {
		code = NoCode
	}
	effective, _ := time.Parse(dateLayout, trimmed(rec["effective_date"]))
	return Product{
		Code:          code,
		Name:          trimmed(rec["cms_product_name"]),
		RetailIncVAT:  fileio.MoneyOrZero(rec["retail_price_inc_vat"]),
		RetailExcVAT:  fileio.MoneyOrZero(rec["retail_price_exc_vat"]),
		Wholesale:     fileio.MoneyOrZero(rec["wholesale_price"]),
		EffectiveDate: effective,
	}
}

// warnNearDuplicates logs canonical-name pairs that look like the same
// product entered twice. Informational only.
func (s *Store) warnNearDuplicates() {
	for i := 0; i < len(s.products); i++ {
		for j := i + 1; j < len(s.products); j++ {
			a, b := s.products[i].Name, s.products[j].Name
			if a == b {
				continue
			}
			if matchr.JaroWinkler(a, b, true) >= duplicateWarnThreshold {
				s.log.Warn().Str("a", a).Str("b", b).Msg("catalogue names look like duplicates")
			}
		}
	}
}

// Products returns a snapshot of the catalogue in file order. File order is
// the scan order downstream ranking relies on for tie-breaking.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// FindByName looks up a product by exact canonical-name equality.
func (s *Store) FindByName(name string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// UpdatePrice overwrites the current wholesale price for code and persists
// the full catalogue back to disk, appending one history entry once the
// write has succeeded.
func (s *Store) UpdatePrice(code string, newPrice decimal.Decimal, effective time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Code != code {
			continue
		}
		old := s.products[i].Wholesale
		oldEffective := s.products[i].EffectiveDate
		s.products[i].Wholesale = newPrice
		s.products[i].EffectiveDate = effective
		if err := s.save(); err != nil {
			// failed writes leave no trace: no mutation, no history entry
			s.products[i].Wholesale = old
			s.products[i].EffectiveDate = oldEffective
			s.log.Error().Err(err).Str("code", code).Msg("catalogue save failed")
			return err
		}
		s.history = append(s.history, HistoryEntry{
			Code:      code,
			OldPrice:  old,
			NewPrice:  newPrice,
			ChangedAt: time.Now(),
		})
		s.log.Info().Str("code", code).
			Str("old", old.String()).
			Str("new", newPrice.String()).
			Msg("price updated")
		return nil
	}
	return ErrProductNotFound
}

// History returns a copy of the append-only price log.
func (s *Store) History() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// save writes the catalogue back in its source column layout. Caller holds
// the write lock.
func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"cms_product_code", "cms_product_name",
		"retail_price_inc_vat", "retail_price_exc_vat",
		"wholesale_price", "effective_date",
	}); err != nil {
		return err
	}
	for _, p := range s.products {
		code := p.Code
		if code == NoCode {
			code = ""
		}
		rec := []string{
			code,
			p.Name,
			p.RetailIncVAT.StringFixed(2),
			p.RetailExcVAT.StringFixed(2),
			p.Wholesale.StringFixed(2),
			p.EffectiveDate.Format(dateLayout),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func trimmed(s string) string { return strings.TrimSpace(s) }
