package web

import (
	"fmt"
	"time"

	vm "github.com/ericfisherdev/echochamber/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/echochamber/internal/domain/model"
)

// toSuggestionViewModel converts a domain Suggestion, rendering its message as
// sanitized HTML.
func toSuggestionViewModel(s model.Suggestion, now time.Time) vm.SuggestionViewModel {
	return vm.SuggestionViewModel{
		ID:          s.ID,
		Username:    s.Username,
		MessageHTML: RenderMarkdown(s.Message),
		CreatedAt:   s.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Age:         formatAge(now.Sub(s.CreatedAt)),
	}
}

func toDashboardViewModel(username string, showsAll bool, suggestions []model.Suggestion, now time.Time) vm.DashboardViewModel {
	views := make([]vm.SuggestionViewModel, 0, len(suggestions))
	for _, s := range suggestions {
		views = append(views, toSuggestionViewModel(s, now))
	}

	return vm.DashboardViewModel{
		Username:    username,
		ShowsAll:    showsAll,
		Suggestions: views,
	}
}

// formatAge renders a coarse relative age such as "just now", "5m ago" or "3d ago".
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
