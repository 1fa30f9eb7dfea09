package align

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

func fp(v float64) *float64 { return &v }

func day(s string) time.Time {
	t, err := time.Parse(model.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	companyA = model.CompanyRef{ScreenerID: 1, Name: "Alpha"}
	companyB = model.CompanyRef{ScreenerID: 2, Name: "Beta"}
)

func seriesA() model.PriceSeries {
	return model.PriceSeries{
		{Date: day("2024-01-03"), Price: fp(110)},
		{Date: day("2024-01-02"), Price: fp(100)},
		{Date: day("2024-01-01"), Price: fp(90)},
	}
}

func TestRows_UnifiedDateAxis(t *testing.T) {
	// B trades on a day A doesn't and vice versa
	series := map[int64]model.PriceSeries{
		1: seriesA(),
		2: {
			{Date: day("2024-01-04"), Price: fp(55)},
			{Date: day("2024-01-02"), Price: fp(50)},
		},
	}
	rows := Rows([]model.CompanyRef{companyA, companyB}, series, model.NewestFirst)

	if len(rows) != 4 {
		t.Fatalf("expected 4 distinct dates, got %d", len(rows))
	}
	want := []string{"2024-01-04", "2024-01-03", "2024-01-02", "2024-01-01"}
	for i, row := range rows {
		if got := row.Date.Format(model.DateFormat); got != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], got)
		}
	}

	// A has no observation on 01-04; the cell must be absent, not zero
	if _, ok := rows[0].Prices[1]; ok {
		t.Error("company A must be absent on 2024-01-04")
	}
	if p := rows[0].Prices[2]; p == nil || *p != 55 {
		t.Errorf("company B on 2024-01-04: expected 55, got %v", p)
	}
}

func TestRows_Idempotent(t *testing.T) {
	series := map[int64]model.PriceSeries{1: seriesA()}
	first := Rows([]model.CompanyRef{companyA}, series, model.NewestFirst)
	second := Rows([]model.CompanyRef{companyA}, series, model.NewestFirst)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must yield identical rows")
	}
}

func TestRows_DirectionReversesOrderOnly(t *testing.T) {
	series := map[int64]model.PriceSeries{1: seriesA()}
	newest := Rows([]model.CompanyRef{companyA}, series, model.NewestFirst)
	oldest := Rows([]model.CompanyRef{companyA}, series, model.OldestFirst)

	if len(newest) != len(oldest) {
		t.Fatalf("row counts differ: %d vs %d", len(newest), len(oldest))
	}
	for i := range newest {
		j := len(oldest) - 1 - i
		if !newest[i].Date.Equal(oldest[j].Date) {
			t.Errorf("row %d: oldest-first must be the exact reverse", i)
		}
	}
}

func TestChange_NewestFirst(t *testing.T) {
	rows := Rows([]model.CompanyRef{companyA}, map[int64]model.PriceSeries{1: seriesA()}, model.NewestFirst)

	chg := Change(rows, 0, 1, model.NewestFirst)
	if chg == nil {
		t.Fatal("expected a change for the newest row")
	}
	if chg.Absolute != 10 {
		t.Errorf("expected absolute 10, got %v", chg.Absolute)
	}
	if math.Abs(chg.Percent-10) > 1e-9 {
		t.Errorf("expected percent 10, got %v", chg.Percent)
	}

	if chg := Change(rows, 2, 1, model.NewestFirst); chg != nil {
		t.Errorf("oldest row has no prior observation, expected nil, got %+v", chg)
	}
}

func TestChange_DirectionSymmetry(t *testing.T) {
	series := map[int64]model.PriceSeries{1: seriesA()}
	refs := []model.CompanyRef{companyA}
	newest := Rows(refs, series, model.NewestFirst)
	oldest := Rows(refs, series, model.OldestFirst)

	for i := range newest {
		j := len(oldest) - 1 - i
		a := Change(newest, i, 1, model.NewestFirst)
		b := Change(oldest, j, 1, model.OldestFirst)
		if (a == nil) != (b == nil) {
			t.Fatalf("row %d: change presence differs between directions", i)
		}
		if a != nil && (a.Absolute != b.Absolute || a.Percent != b.Percent) {
			t.Errorf("row %d: change values must not depend on direction: %+v vs %+v", i, a, b)
		}
	}
}

func TestChange_AbsentAndZeroPrices(t *testing.T) {
	series := map[int64]model.PriceSeries{
		1: {
			{Date: day("2024-01-03"), Price: fp(110)},
			{Date: day("2024-01-02"), Price: nil},
			{Date: day("2024-01-01"), Price: fp(0)},
		},
	}
	rows := Rows([]model.CompanyRef{companyA}, series, model.NewestFirst)

	if chg := Change(rows, 0, 1, model.NewestFirst); chg != nil {
		t.Errorf("missing previous price must yield nil, got %+v", chg)
	}
	if chg := Change(rows, 1, 1, model.NewestFirst); chg != nil {
		t.Errorf("missing current price must yield nil, got %+v", chg)
	}

	// zero previous price must never divide
	series[1][1].Price = fp(100)
	rows = Rows([]model.CompanyRef{companyA}, series, model.NewestFirst)
	if chg := Change(rows, 1, 1, model.NewestFirst); chg != nil {
		t.Errorf("zero previous price must yield nil, got %+v", chg)
	}
}

func TestChange_MissingCompanyCell(t *testing.T) {
	series := map[int64]model.PriceSeries{
		1: seriesA(),
		2: {{Date: day("2024-01-02"), Price: fp(50)}},
	}
	rows := Rows([]model.CompanyRef{companyA, companyB}, series, model.NewestFirst)

	// B is absent on 01-03 and on 01-01: both sides of any B change are gone
	if chg := Change(rows, 0, 2, model.NewestFirst); chg != nil {
		t.Errorf("absent current cell must yield nil, got %+v", chg)
	}
	if chg := Change(rows, 1, 2, model.NewestFirst); chg != nil {
		t.Errorf("absent previous cell must yield nil, got %+v", chg)
	}
}

func TestSort_Direction(t *testing.T) {
	sorted := Sort(seriesA(), model.OldestFirst)
	if !sorted[0].Date.Equal(day("2024-01-01")) {
		t.Errorf("oldest-first must start at the oldest date, got %s", sorted[0].Date)
	}
	// input must stay untouched
	orig := seriesA()
	Sort(orig, model.OldestFirst)
	if !orig[0].Date.Equal(day("2024-01-03")) {
		t.Error("Sort must not mutate its input")
	}
}

func TestSeriesChanges_ExternalPreviousObservation(t *testing.T) {
	rows := seriesA()
	prev := &model.PriceRow{Date: day("2023-12-31"), Price: fp(80)}

	changes := SeriesChanges(rows, model.NewestFirst, prev)
	if len(changes) != 3 {
		t.Fatalf("expected one change per row, got %d", len(changes))
	}
	last := changes[2]
	if last == nil {
		t.Fatal("external previous observation must seed the earliest row")
	}
	if last.Absolute != 10 {
		t.Errorf("expected 90-80=10, got %v", last.Absolute)
	}

	// without it the earliest row has no change
	changes = SeriesChanges(rows, model.NewestFirst, nil)
	if changes[2] != nil {
		t.Errorf("earliest row without external previous must be nil, got %+v", changes[2])
	}
	if changes[0] == nil || changes[0].Absolute != 10 {
		t.Errorf("newest row change expected 10, got %+v", changes[0])
	}
}

func TestSeriesChanges_OldestFirst(t *testing.T) {
	rows := Sort(seriesA(), model.OldestFirst)
	changes := SeriesChanges(rows, model.OldestFirst, nil)

	if changes[0] != nil {
		t.Errorf("first (oldest) row must have nil change, got %+v", changes[0])
	}
	if changes[1] == nil || changes[1].Absolute != 10 {
		t.Errorf("expected 100-90=10, got %+v", changes[1])
	}
	if changes[2] == nil || changes[2].Absolute != 10 {
		t.Errorf("expected 110-100=10, got %+v", changes[2])
	}
}
