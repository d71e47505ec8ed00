package dataset

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// GenerateConfig controls synthetic CRM fixture generation. The same seed
// always produces the same table, so fixtures are reproducible across
// machines and test runs.
type GenerateConfig struct {
	// Seed drives all randomization. Fixed seeds give reproducible
	// fixtures; use a time-based seed for throwaway data.
	Seed int64

	// Deals is the number of ordinary deal rows to generate.
	Deals int

	// SignatureRows is the number of marker rows mixed into the table.
	// Each carries a unique owner ID that appears nowhere else, letting
	// question sets reference rows that provably came from this exact
	// fixture.
	SignatureRows int
}

// Signature identifies the marker rows embedded in a generated table.
type Signature struct {
	// OwnerIDs lists the unique owner identifiers of the signature rows,
	// in row order.
	OwnerIDs []string
}

var (
	dealStages  = []string{"Qualification", "Proposal", "Negotiation", "Closed Won", "Closed Lost"}
	leadSources = []string{"Webinar", "Trade Show", "Referral", "Cold Call", "Inbound"}
	nextSteps   = []string{"Phone follow-up", "Send revised proposal", "Confirm details", "Schedule demo", "Await signature"}
	companies   = []string{"Acme", "Northstar", "Redline", "Stafford", "Global", "Pinnacle", "Keystone", "Vertex", "Summit", "Harbor"}
	suffixes    = []string{"Corp", "Ltd", "Industries", "Group", "Partners"}
)

// Generate produces a synthetic CRM deals table with unambiguous patterns:
// ordinary deal rows with plausible stage/amount/source values, plus the
// configured number of signature rows whose owner IDs are unique markers.
// Generation is fully deterministic for a given config.
func Generate(cfg GenerateConfig) (*Table, Signature) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	header := []string{"DealName", "Stage", "Amount", "OwnerID", "LeadSource", "CloseDate", "NextStep"}
	rows := make([][]string, 0, cfg.Deals+cfg.SignatureRows)

	for i := 0; i < cfg.Deals; i++ {
		name := fmt.Sprintf("%s %s",
			companies[rng.Intn(len(companies))],
			suffixes[rng.Intn(len(suffixes))])
		amount := (rng.Intn(50) + 1) * 10000
		closeDate := fmt.Sprintf("2025-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1)

		rows = append(rows, []string{
			name,
			dealStages[rng.Intn(len(dealStages))],
			fmt.Sprintf("%d", amount),
			fmt.Sprintf("EMP%06x", rng.Intn(1<<24)),
			leadSources[rng.Intn(len(leadSources))],
			closeDate,
			nextSteps[rng.Intn(len(nextSteps))],
		})
	}

	sig := Signature{OwnerIDs: make([]string, 0, cfg.SignatureRows)}
	for i := 0; i < cfg.SignatureRows; i++ {
		// Owner IDs for signature rows come from a seeded UUID so they
		// are unique across fixtures yet reproducible per seed.
		marker := "SIG" + strings.ToUpper(uuidFromRNG(rng).String()[:8])
		sig.OwnerIDs = append(sig.OwnerIDs, marker)

		rows = append(rows, []string{
			fmt.Sprintf("Signature Deal %d", i+1),
			dealStages[rng.Intn(len(dealStages))],
			fmt.Sprintf("%d", (rng.Intn(20)+1)*25000),
			marker,
			leadSources[rng.Intn(len(leadSources))],
			fmt.Sprintf("2025-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1),
			nextSteps[rng.Intn(len(nextSteps))],
		})
	}

	return &Table{Header: header, Rows: rows}, sig
}

// uuidFromRNG builds a version-4-shaped UUID from the seeded RNG instead
// of crypto/rand, keeping generation deterministic per seed.
func uuidFromRNG(rng *rand.Rand) uuid.UUID {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	u, err := uuid.FromBytes(b[:])
	if err != nil {
		// FromBytes only fails on length mismatch, which cannot happen
		// with a fixed 16-byte array.
		panic(err)
	}
	return u
}
