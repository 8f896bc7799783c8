// internal/app/poller.go
package app

import (
	"context"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// Lookback is how far back the first query reaches (131400 minutes).
const Lookback = 131400 * time.Minute

const failurePrefix = "Сбой в работе программы: "

// State is carried from one cycle to the next.
type State struct {
	// Cursor is the from_date of the next query, seconds since epoch.
	Cursor int64
	// LastStatus is the last status delivered to the chat.
	LastStatus homework.Status
	// LastError is the dedup key of the last failure delivered to the chat.
	LastError string
}

// InitialState returns the state of the first cycle.
func InitialState(now time.Time) State {
	return State{Cursor: now.Add(-Lookback).Unix()}
}

// Poller runs poll cycles against the homework API.
type Poller struct {
	source   homework.Source
	notifier Notifier
	logger   *logrus.Entry
}

func NewPoller(source homework.Source, notifier Notifier, logger *logrus.Entry) *Poller {
	return &Poller{
		source:   source,
		notifier: notifier,
		logger:   logger,
	}
}

// Cycle performs one poll and returns the state for the next one. It never
// fails: errors are logged and reported to the chat once per condition.
func (p *Poller) Cycle(ctx context.Context, state State) State {
	p.logger.WithField("cursor", state.Cursor).Info("Poll cycle started")

	next, err := p.poll(ctx, state)
	if err != nil {
		return p.reportFailure(ctx, state, err)
	}

	p.logger.WithField("cursor", next.Cursor).Info("Poll cycle finished")
	return next
}

func (p *Poller) poll(ctx context.Context, state State) (State, error) {
	raw, err := p.source.GetAnswer(ctx, state.Cursor)
	if err != nil {
		return state, err
	}
	answer, err := homework.CheckResponse(raw)
	if err != nil {
		return state, err
	}

	next := state
	if len(answer.Homeworks) == 0 {
		p.logger.Debug("No new homework statuses in the answer")
	} else {
		change, err := homework.ParseStatus(answer.Homeworks[0])
		if err != nil {
			return state, err
		}
		if change.Status != state.LastStatus {
			logCtx := p.logger.WithFields(logrus.Fields{
				"homework": change.HomeworkName,
				"from":     state.LastStatus,
				"to":       change.Status,
			})
			if err := p.notifier.Notify(ctx, change.Message); err != nil {
				// LastStatus only moves once the change reached the chat.
				logCtx.WithError(err).Error("Status change not delivered")
			} else {
				logCtx.Info("Status change delivered")
				next.LastStatus = change.Status
			}
		} else {
			p.logger.WithField("status", change.Status).Debug("Homework status unchanged")
		}
	}

	if answer.CurrentDate != nil {
		next.Cursor = *answer.CurrentDate
	} else {
		p.logger.Warn("Answer has no current_date, keeping the previous cursor")
	}
	next.LastError = ""
	return next, nil
}

func (p *Poller) reportFailure(ctx context.Context, state State, cause error) State {
	key := homework.FailureKey(cause)
	logCtx := p.logger.WithError(cause).WithField("failure", key)
	logCtx.Error("Poll cycle failed")

	if key == state.LastError {
		logCtx.Debug("Failure already reported, not notifying again")
		return state
	}

	if err := p.notifier.Notify(ctx, failurePrefix+cause.Error()); err != nil {
		logCtx.WithField("delivery_error", err.Error()).Warn("Failure report not delivered, will retry on next cycle")
		return state
	}
	state.LastError = key
	return state
}
