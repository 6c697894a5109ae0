package charts

import "github.com/kamilov2/presentation/pkg/debug"

// RegisterBuiltins constructs the stock charts and registers each under its
// identifier. Every constructor failure is isolated: it is logged as a
// warning and the remaining charts still initialize, so one bad dataset can
// never leave the deck chartless. Returns the number of charts registered.
func RegisterBuiltins(reg *Registry) int {
	builders := []struct {
		id    string
		build func() (Chart, error)
	}{
		{"delivery-skills", func() (Chart, error) {
			return NewRadar("delivery-skills", "Delivery Skills", Dataset{
				Labels: []string{"Planning", "Coding", "Review", "Testing", "Shipping", "Support"},
				Values: []float64{70, 88, 64, 75, 82, 58},
				Max:    100,
			})
		}},
		{"team-radar", func() (Chart, error) {
			return NewRadar("team-radar", "Team Coverage", Dataset{
				Labels: []string{"Frontend", "Backend", "Infra", "Data", "Mobile"},
				Values: []float64{80, 92, 55, 45, 30},
				Max:    100,
			})
		}},
		{"time-allocation", func() (Chart, error) {
			return NewDoughnut("time-allocation", "Time Allocation", Dataset{
				Labels: []string{"Features", "Bugs", "Meetings", "Review", "Other"},
				Values: []float64{38, 22, 18, 14, 8},
			})
		}},
		{"defect-sources", func() (Chart, error) {
			return NewDoughnut("defect-sources", "Defect Sources", Dataset{
				Labels: []string{"Regressions", "New code", "Config", "Upstream"},
				Values: []float64{31, 42, 15, 12},
			})
		}},
	}

	registered := 0
	for _, b := range builders {
		c, err := b.build()
		if err != nil {
			debug.Warn("chart %q failed to initialize: %v", b.id, err)
			continue
		}
		reg.Register(c)
		registered++
	}
	return registered
}
