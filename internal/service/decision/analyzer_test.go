package decision

import (
	"testing"

	"github.com/sandevgo/taleforge/internal/core"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		wantTone  core.EmotionalTone
		wantMajor bool
	}{
		{name: "aggressive and major", action: "I attack the guard and kill him", wantTone: core.ToneAggressive, wantMajor: true},
		{name: "friendly", action: "I smile and thank her", wantTone: core.ToneFriendly},
		{name: "cautious", action: "I hide behind the crates and wait", wantTone: core.ToneCautious},
		{name: "romantic", action: "I kiss her softly", wantTone: core.ToneRomantic},
		{name: "romantic and major", action: "I tell him I love him", wantTone: core.ToneRomantic, wantMajor: true},
		{name: "neutral", action: "I walk to the window", wantTone: core.ToneNeutral},
		{name: "case insensitive", action: "I ATTACK", wantTone: core.ToneAggressive},
		{name: "first rule wins", action: "I help him, then attack the wolf", wantTone: core.ToneAggressive},
		{name: "friendly beats cautious", action: "I carefully help the child", wantTone: core.ToneFriendly},
		{name: "major without tone", action: "I decide to take the northern road", wantTone: core.ToneNeutral, wantMajor: true},
		{name: "russian aggressive", action: "Я атакую стражника", wantTone: core.ToneAggressive},
		{name: "russian romantic major", action: "Я говорю, что люблю её", wantTone: core.ToneRomantic, wantMajor: true},
		{name: "empty", action: "", wantTone: core.ToneNeutral},
		{name: "careful room check", action: "I carefully check the room", wantTone: core.ToneCautious},
		{name: "no keyword", action: "nothing matches", wantTone: core.ToneNeutral, wantMajor: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.action, nil)
			if got.EmotionalTone != tt.wantTone {
				t.Errorf("tone = %q, want %q", got.EmotionalTone, tt.wantTone)
			}
			if got.IsMajorChoice != tt.wantMajor {
				t.Errorf("major = %v, want %v", got.IsMajorChoice, tt.wantMajor)
			}
			if got.PlayerWords != tt.action {
				t.Errorf("player words = %q, want %q", got.PlayerWords, tt.action)
			}
		})
	}
}

func TestAnalyze_IgnoresHistory(t *testing.T) {
	history := []core.HistoryEntry{core.UserEntry("I attack"), core.AssistantEntry("The orc falls.")}
	got := Analyze("I look around", history)
	if got.EmotionalTone != core.ToneNeutral || got.IsMajorChoice {
		t.Errorf("history must not influence analysis, got %+v", got)
	}
}
