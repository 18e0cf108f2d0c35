package dataset

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

// DefaultSampleRows is the size of a generated sample dataset.
const DefaultSampleRows = 60

// MaxSampleRows bounds generated samples.
const MaxSampleRows = 10000

var (
	sampleSummaries = []string{
		"Dano moral em contrato de consumo; procedente; responsabilidade do fornecedor",
		"Habeas corpus improcedente; cerceamento de defesa não configurado",
		"Repercussão geral reconhecida; inconstitucionalidade parcial",
		"Contrato bancário e cobrança indevida; procedente",
		"Questão tributária; improcedente",
	}
	sampleOutcomes = []string{"Procedente", "Improcedente", "Parcialmente Procedente"}
	sampleCourts   = []string{"STF", "STJ"}
)

// Sample generates n synthetic decisions, deterministic for a given seed.
// Dates follow year 2015+(i%11), month (i%12)+1, day (i%27)+1.
func Sample(n int, seed uint64) (decision.Dataset, error) {
	if n <= 0 {
		n = DefaultSampleRows
	}
	if n > MaxSampleRows {
		return decision.Dataset{}, fmt.Errorf("%w: sample size %d exceeds max %d", domain.ErrInvalidDataset, n, MaxSampleRows)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	records := make([]decision.Decision, 0, n)
	for i := 1; i <= n; i++ {
		date := time.Date(2015+(i%11), time.Month((i%12)+1), (i%27)+1, 0, 0, 0, 0, time.UTC)
		d, err := decision.New(
			int64(i),
			sampleCourts[rng.IntN(len(sampleCourts))],
			sampleSummaries[rng.IntN(len(sampleSummaries))],
			sampleOutcomes[rng.IntN(len(sampleOutcomes))],
		)
		if err != nil {
			return decision.Dataset{}, fmt.Errorf("sample row %d: %w", i, err)
		}
		records = append(records, d.WithDate(date))
	}
	return decision.NewDataset(records, true, false)
}
