package actions

import (
	"testing"
	"time"

	"triage_server/core/domain"
)

func sampleActions() []domain.SuggestedAction {
	return []domain.SuggestedAction{
		{ActionID: "track_package", DisplayName: "Track package", ActionType: domain.ActionGoTo,
			RequiredEntities: []string{"trackingNumber"}, Priority: 1, IsPrimary: true},
		{ActionID: "view_order", DisplayName: "View order", ActionType: domain.ActionGoTo,
			RequiredEntities: []string{"orderId"}, Priority: 2},
		{ActionID: "set_reminder", DisplayName: "Set reminder", ActionType: domain.ActionInApp, Priority: 3},
	}
}

func sampleContext() Context {
	return Context{
		Archetype: domain.ArchetypeMail,
		Now:       time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		Entities: map[string]string{
			"trackingNumber": "1Z999AA10123456784",
			"orderId":        "A123-4567",
		},
		Meta: map[string]*domain.EntityMeta{
			"trackingNumber": {Key: "trackingNumber", Confidence: 0.95, Validated: true},
		},
	}
}

func TestPrioritizeInvariants(t *testing.T) {
	p := NewPrioritizer()

	ranked := p.Prioritize(sampleActions(), sampleContext())

	if len(ranked) != 3 {
		t.Fatalf("len = %d, want 3", len(ranked))
	}

	primaries := 0
	for i, a := range ranked {
		if a.Priority != i+1 {
			t.Errorf("action %d priority = %d, want %d", i, a.Priority, i+1)
		}
		if a.IsPrimary {
			primaries++
			if i != 0 {
				t.Errorf("primary at position %d, want 0", i)
			}
		}
		if a.Score <= 0 {
			t.Errorf("action %q score = %v, want > 0", a.ActionID, a.Score)
		}
		if len(a.Factors) == 0 {
			t.Errorf("action %q has no factor breakdown", a.ActionID)
		}
	}
	if primaries != 1 {
		t.Errorf("primaries = %d, want exactly 1", primaries)
	}

	// Scores must be non-increasing.
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("ranking not sorted: %v after %v", ranked[i].Score, ranked[i-1].Score)
		}
	}
}

func TestPrioritizeDoesNotMutateInput(t *testing.T) {
	p := NewPrioritizer()

	input := sampleActions()
	p.Prioritize(input, sampleContext())

	if input[0].Score != 0 || input[1].Priority != 2 || !input[0].IsPrimary {
		t.Errorf("input slice was mutated: %+v", input)
	}
}

func TestPrioritizeEmpty(t *testing.T) {
	p := NewPrioritizer()

	ranked := p.Prioritize(nil, sampleContext())
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("empty input should yield empty non-nil slice, got %v", ranked)
	}
}

func TestPrioritizeReadiness(t *testing.T) {
	p := NewPrioritizer()

	// Same shape, one action's required entity is missing.
	input := []domain.SuggestedAction{
		{ActionID: "a_ready", ActionType: domain.ActionInApp, RequiredEntities: []string{"trackingNumber"}, Priority: 1},
		{ActionID: "b_blocked", ActionType: domain.ActionInApp, RequiredEntities: []string{"invoiceId"}, Priority: 1},
	}

	ranked := p.Prioritize(input, sampleContext())

	if ranked[0].ActionID != "a_ready" {
		t.Errorf("ready action should outrank blocked one, got %q first", ranked[0].ActionID)
	}
	if ranked[1].Factors["readiness"] != 0 {
		t.Errorf("blocked readiness = %v, want 0", ranked[1].Factors["readiness"])
	}
}

func TestPrioritizeUrgencyAndOriginalPrimary(t *testing.T) {
	p := NewPrioritizer()

	base := []domain.SuggestedAction{{ActionID: "x", ActionType: domain.ActionInApp, Priority: 1}}

	calm := p.Prioritize(base, sampleContext())

	urgentCtx := sampleContext()
	urgentCtx.Urgent = true
	urgent := p.Prioritize(base, urgentCtx)

	if urgent[0].Score <= calm[0].Score {
		t.Errorf("urgent score %v should exceed calm score %v", urgent[0].Score, calm[0].Score)
	}
	if urgent[0].Factors["urgency"] != UrgencyMultiplier {
		t.Errorf("urgency factor = %v, want %v", urgent[0].Factors["urgency"], UrgencyMultiplier)
	}

	withPrimary := []domain.SuggestedAction{{ActionID: "x", ActionType: domain.ActionInApp, Priority: 1, IsPrimary: true}}
	boosted := p.Prioritize(withPrimary, sampleContext())
	if boosted[0].Score <= calm[0].Score {
		t.Errorf("original-primary score %v should exceed plain score %v", boosted[0].Score, calm[0].Score)
	}
}

func TestPrioritizeArchetypePreference(t *testing.T) {
	p := NewPrioritizer()

	input := []domain.SuggestedAction{
		{ActionID: "go", ActionType: domain.ActionGoTo, Priority: 1},
		{ActionID: "reply", ActionType: domain.ActionQuickReply, Priority: 1},
	}

	adCtx := sampleContext()
	adCtx.Archetype = domain.ArchetypeAd
	ranked := p.Prioritize(input, adCtx)
	if ranked[0].ActionID != "go" {
		t.Errorf("advertisement should prefer GO_TO, got %q", ranked[0].ActionID)
	}

	mailCtx := sampleContext()
	ranked = p.Prioritize(input, mailCtx)
	if ranked[0].ActionID != "reply" {
		t.Errorf("mail should prefer QUICK_REPLY over GO_TO, got %q", ranked[0].ActionID)
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		hour int
		want timeBucket
	}{
		{6, bucketEarlyMorning},
		{9, bucketMorning},
		{13, bucketAfternoon},
		{19, bucketEvening},
		{23, bucketNight},
		{2, bucketNight},
	}
	for _, tt := range tests {
		if got := bucketFor(tt.hour); got != tt.want {
			t.Errorf("bucketFor(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}
