package rules

import (
	"context"
	"strings"
	"testing"

	"triage_server/core/port/out"
	"triage_server/core/service/classification"
)

func TestSuggestActionsResolvesTemplates(t *testing.T) {
	a := NewCatalogAdapter()

	entities := map[string]string{
		"trackingNumber": "1Z999AA10123456784",
		"trackingUrl":    "https://track.example.com/1Z999AA10123456784",
	}

	actions, err := a.SuggestActions(context.Background(), classification.IntentShippingNotice, entities, out.ActionContext{})
	if err != nil {
		t.Fatalf("SuggestActions: %v", err)
	}
	if len(actions) == 0 {
		t.Fatal("no candidates for shipping intent")
	}

	if actions[0].ActionID != "track_package" {
		t.Errorf("first candidate = %q, want track_package", actions[0].ActionID)
	}
	if actions[0].URL != "https://track.example.com/1Z999AA10123456784" {
		t.Errorf("url = %q, template not resolved", actions[0].URL)
	}
}

func TestSuggestActionsKeepsUnresolvedPlaceholders(t *testing.T) {
	a := NewCatalogAdapter()

	actions, err := a.SuggestActions(context.Background(), classification.IntentShippingNotice, nil, out.ActionContext{})
	if err != nil {
		t.Fatalf("SuggestActions: %v", err)
	}

	if !strings.Contains(actions[0].URL, "{{") {
		t.Errorf("url = %q, unresolved placeholder should survive", actions[0].URL)
	}
}

func TestSuggestActionsFallbacks(t *testing.T) {
	a := NewCatalogAdapter()

	t.Run("category fallback", func(t *testing.T) {
		actions, _ := a.SuggestActions(context.Background(), "calendar.meeting.invite", nil, out.ActionContext{})
		if len(actions) == 0 || actions[0].ActionID != "add_to_calendar" {
			t.Errorf("calendar intents should use the category set, got %+v", actions)
		}
	})

	t.Run("default fallback", func(t *testing.T) {
		actions, _ := a.SuggestActions(context.Background(), "no.such.intent", nil, out.ActionContext{})
		if len(actions) != 1 || actions[0].ActionID != "view_details" {
			t.Errorf("unknown intent should get the default set, got %+v", actions)
		}
		if !actions[0].IsPrimary {
			t.Error("default action should be primary")
		}
	})
}
