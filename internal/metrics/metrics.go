package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Изменения заметок по результату upsert/delete
	NoteMutationsCounterVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_mutations_total",
			Help: "Number of note upserts and deletes, by outcome",
		},
		[]string{"outcome"},
	)

	// Попытки входа, регистрации и выхода
	AuthAttemptsCounterVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Number of login, signup and logout attempts, by result",
		},
		[]string{"intent", "result"},
	)

	// События, записанные в журнал
	JournalEventsCounterVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_events_total",
			Help: "Number of note events appended to the journal, by kind",
		},
		[]string{"kind"},
	)

	ActiveWorkspacesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_workspaces",
			Help: "Number of chats with a workspace in memory",
		},
	)
)

func Init() {
	prometheus.MustRegister(NoteMutationsCounterVec)
	prometheus.MustRegister(AuthAttemptsCounterVec)
	prometheus.MustRegister(JournalEventsCounterVec)
	prometheus.MustRegister(ActiveWorkspacesGauge)
}

func ObserveNoteOutcome(outcome string) {
	NoteMutationsCounterVec.WithLabelValues(outcome).Inc()
}

func ObserveAuth(intent string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AuthAttemptsCounterVec.WithLabelValues(intent, result).Inc()
}

func ObserveJournalEvent(kind string) {
	JournalEventsCounterVec.WithLabelValues(kind).Inc()
}
