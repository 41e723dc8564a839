package service

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/clock"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
)

// Milestone is one fixed elapsed-hour threshold with its badge.
type Milestone struct {
	Hours int    `json:"hours"`
	Badge string `json:"badge"`
}

// NextMilestone is the first threshold not yet reached.
type NextMilestone struct {
	Hours          int     `json:"hours"`
	Badge          string  `json:"badge"`
	HoursRemaining float64 `json:"hoursRemaining"`
}

// MilestoneInfo is the catalog entry surfaced to clients.
type MilestoneInfo struct {
	Hours       int    `json:"hours"`
	Badge       string `json:"badge"`
	Description string `json:"description"`
}

// milestoneCatalog is ordered ascending by threshold.
var milestoneCatalog = []Milestone{
	{12, "Ketosis Initiated"},
	{24, "24-Hour Milestone"},
	{36, "Peak Performance"},
	{48, "48-Hour Champion"},
	{72, "72-Hour Master"},
}

var milestoneDescriptions = map[int]string{
	12: "Liver glycogen depletes, body shifts to fat burning, ketone production starts",
	24: "Full ketosis active, autophagy accelerates, fat burning increases significantly",
	36: "Highest ketone production, growth hormone increases, inflammation decreases",
	48: "Sustained ketosis and autophagy, cellular repair in full swing",
	72: "Extended fasting complete, complete cellular reset achieved",
}

// AchievedMilestones returns every catalog entry with threshold <= elapsed,
// ascending.
func AchievedMilestones(elapsedHours float64) []Milestone {
	achieved := []Milestone{}
	for _, m := range milestoneCatalog {
		if elapsedHours >= float64(m.Hours) {
			achieved = append(achieved, m)
		}
	}
	return achieved
}

// NextMilestoneAfter returns the first catalog entry past elapsed, or nil
// when the final threshold has been reached.
func NextMilestoneAfter(elapsedHours float64) *NextMilestone {
	for _, m := range milestoneCatalog {
		if elapsedHours < float64(m.Hours) {
			return &NextMilestone{
				Hours:          m.Hours,
				Badge:          m.Badge,
				HoursRemaining: round2(float64(m.Hours) - elapsedHours),
			}
		}
	}
	return nil
}

// MilestoneCatalog returns the full catalog with descriptions, ascending.
func MilestoneCatalog() []MilestoneInfo {
	info := make([]MilestoneInfo, 0, len(milestoneCatalog))
	for _, m := range milestoneCatalog {
		info = append(info, MilestoneInfo{
			Hours:       m.Hours,
			Badge:       m.Badge,
			Description: milestoneDescriptions[m.Hours],
		})
	}
	return info
}

// MilestoneEngine persists achieved milestones for a session.
type MilestoneEngine struct {
	milestoneRepo repository.MilestoneRepository
	clock         clock.Clock
}

func NewMilestoneEngine(milestoneRepo repository.MilestoneRepository, clk clock.Clock) *MilestoneEngine {
	return &MilestoneEngine{
		milestoneRepo: milestoneRepo,
		clock:         clk,
	}
}

// WithTx binds the engine's repository to the given transaction.
func (e *MilestoneEngine) WithTx(tx *sqlx.Tx) *MilestoneEngine {
	return &MilestoneEngine{
		milestoneRepo: e.milestoneRepo.WithTx(tx),
		clock:         e.clock,
	}
}

// Record stores a milestone row for every threshold the session has crossed.
// The insert is conditional on absence, so repeated calls for the same
// session and elapsed value never duplicate rows.
func (e *MilestoneEngine) Record(ctx context.Context, sessionID string, elapsedHours float64) error {
	now := e.clock.Now()
	for _, m := range AchievedMilestones(elapsedHours) {
		created, err := e.milestoneRepo.CreateIfAbsent(ctx, model.CreateFastMilestoneParams{
			SessionID:      sessionID,
			MilestoneHours: m.Hours,
			BadgeName:      m.Badge,
			AchievedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("record milestone %dh: %w", m.Hours, err)
		}
		if created {
			log.Info().
				Str("sessionId", sessionID).
				Int("hours", m.Hours).
				Str("badge", m.Badge).
				Msg("milestone achieved")
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
