package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type Payroll struct {
	mu     sync.Mutex
	runs   []payroll.Run
	items  []payroll.Item
	nextID int64
}

func NewPayroll() *Payroll {
	return &Payroll{}
}

// Items returns every stored item.
func (p *Payroll) Items() []payroll.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]payroll.Item(nil), p.items...)
}

func (p *Payroll) Snapshot() func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	runs := append([]payroll.Run(nil), p.runs...)
	items := append([]payroll.Item(nil), p.items...)
	return func() {
		p.mu.Lock()
		p.runs, p.items = runs, items
		p.mu.Unlock()
	}
}

func (p *Payroll) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.runs {
		if existing.Year == run.Year && existing.Month == run.Month {
			return payroll.Run{}, payroll.ErrAlreadyFinalized
		}
	}
	p.runs = append(p.runs, run)
	return run, nil
}

func (p *Payroll) InsertItems(ctx context.Context, items []payroll.Item) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		for _, existing := range p.items {
			if existing.EmployeeID == item.EmployeeID && existing.Year == item.Year && existing.Month == item.Month {
				return payroll.ErrAlreadyFinalized
			}
		}
		p.nextID++
		item.ID = p.nextID
		p.items = append(p.items, item)
	}
	return nil
}

func (p *Payroll) ListRuns(ctx context.Context) ([]payroll.Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]payroll.Run, 0, len(p.runs))
	for _, run := range p.runs {
		run.TotalEmployees, run.TotalNet = 0, decimal.Zero
		for _, item := range p.items {
			if item.RunID != nil && *item.RunID == run.ID {
				run.TotalEmployees++
				run.TotalNet = run.TotalNet.Add(item.NetSalary)
			}
		}
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (p *Payroll) ListItemsByEmployee(ctx context.Context, employeeID int64, year, month *int) ([]payroll.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]payroll.Item, 0)
	for _, item := range p.items {
		if item.EmployeeID != employeeID {
			continue
		}
		if year != nil && item.Year != *year {
			continue
		}
		if month != nil && item.Month != *month {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
