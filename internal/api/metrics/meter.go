package metrics

import (
	"strconv"
	"time"
)

// AskMeter records ask pipeline events into the package collectors.
type AskMeter struct{}

func (AskMeter) OnAsk(outcome string) {
	AskRequestsTotal.WithLabelValues(outcome).Inc()
}

func (AskMeter) OnCompletion(d time.Duration, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	CompletionDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (AskMeter) OnCommit()        { PromptsConsumedTotal.Inc() }
func (AskMeter) OnCommitFailure() { QuotaCommitFailuresTotal.Inc() }

// MailMeter records dispatcher activity.
type MailMeter struct{}

func (MailMeter) OnDelivery(ok bool) {
	if ok {
		EmailsTotal.WithLabelValues("sent").Inc()
		return
	}
	EmailsTotal.WithLabelValues("failed").Inc()
}

func (MailMeter) QueueDepth(workerID, depth int) {
	MailQueueDepth.WithLabelValues(strconv.Itoa(workerID)).Set(float64(depth))
}
