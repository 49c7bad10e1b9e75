// Package refine reshapes a classified utterance into the query text the
// external dialog engine expects, or short-circuits into the
// retrieval-augmented answer path for knowledge-base intents.
package refine

import (
	"context"
	"strings"

	"github.com/lnmiit-dev/campusbot-go/internal/genai"
	"github.com/lnmiit-dev/campusbot-go/internal/intent"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

// Lead-in and fallback phrases for the normalized queries.
const (
	bookSearchLeadIn    = "Can you get the "
	slotBookingLeadIn   = "I want to book a slot with "
	slotBookingFallback = "I want to book a slot"
)

// intentPhrases maps intent labels to the fixed phrase forwarded to the
// dialog engine in place of the raw utterance. Intents absent from the
// table forward the raw utterance unchanged.
var intentPhrases = map[string]string{
	intent.LabelGetLatestAnnouncement: "new events",
	intent.LabelComplaint:             "I have an issue",
	intent.LabelAdmissionDetails:      "Admission Info",
}

// Result is the outcome of refining one turn.
type Result struct {
	// Query is the text to forward to the dialog engine. Empty when
	// Answered is true.
	Query string

	// Answered is true when the turn was resolved locally by the
	// retrieval-augmented path; Answer holds the final reply.
	Answered bool
	Answer   string
}

// Refiner reshapes utterances per classified intent. Extraction and
// retrieval collaborators may be nil (features disabled); refinement
// degrades to raw-utterance passthrough and never errors.
type Refiner struct {
	extractor *genai.Extractor
	answerer  Answerer
	logger    *logger.Logger
}

// Answerer is the retrieval-augmented answer collaborator.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
	IsEnabled() bool
}

// NewRefiner creates a refiner with the given collaborators.
func NewRefiner(extractor *genai.Extractor, answerer Answerer, log *logger.Logger) *Refiner {
	return &Refiner{
		extractor: extractor,
		answerer:  answerer,
		logger:    log,
	}
}

// Refine produces the query to forward for this turn. label is empty
// when classification found no confident match. hasOpenContext is true
// when a sub-flow is mid-conversation, in which case the dialog engine's
// own slot filling drives the turn and the raw utterance passes through.
func (r *Refiner) Refine(ctx context.Context, label, utterance string, hasOpenContext bool) Result {
	if hasOpenContext {
		return Result{Query: utterance}
	}

	switch label {
	case intent.LabelSearchLibraryBooks:
		return Result{Query: r.refineBookSearch(ctx, utterance)}

	case intent.LabelFacultyData, intent.LabelGeneralLNM:
		if res, ok := r.tryAnswer(ctx, utterance); ok {
			return res
		}
		return Result{Query: utterance}

	case intent.LabelViewAvailableSlots:
		return Result{Query: r.refineSlotRequest(ctx, utterance)}

	default:
		if phrase, ok := intentPhrases[label]; ok {
			return Result{Query: phrase}
		}
		return Result{Query: utterance}
	}
}

// refineBookSearch builds the book-search lead-in phrase with the
// extracted title. Fails open to the raw utterance.
func (r *Refiner) refineBookSearch(ctx context.Context, utterance string) string {
	if !r.extractor.IsEnabled() {
		return utterance
	}

	title, err := r.extractor.ExtractBookTitle(ctx, utterance)
	if err != nil || title == "" {
		if err != nil {
			r.logger.WithError(err).Warn("Book title extraction failed, forwarding raw utterance")
		}
		return utterance
	}

	return bookSearchLeadIn + title
}

// refineSlotRequest builds the normalized slot booking phrase. The
// dialog engine extracts its slot-filling parameters from this exact
// shape, so the raw utterance is never forwarded here: when extraction
// cannot produce both faculty and date, the generic fallback is used.
func (r *Refiner) refineSlotRequest(ctx context.Context, utterance string) string {
	if !r.extractor.IsEnabled() {
		return slotBookingFallback
	}

	req, err := r.extractor.ExtractSlotRequest(ctx, utterance)
	if err != nil {
		r.logger.WithError(err).Warn("Slot request extraction failed, using generic phrase")
		return slotBookingFallback
	}

	faculty := strings.TrimSpace(req.FacultyName)
	date := strings.TrimSpace(req.Date)
	if faculty == "" || date == "" {
		return slotBookingFallback
	}

	return slotBookingLeadIn + faculty + " on date " + date
}

// tryAnswer attempts the retrieval-augmented path for knowledge-base
// intents. The path is terminal once entered: a transient failure
// produces a generic failure reply, never a delegation to the dialog
// engine. Returns ok=false only when the answerer is disabled entirely,
// in which case the caller forwards the raw utterance instead.
func (r *Refiner) tryAnswer(ctx context.Context, utterance string) (Result, bool) {
	if r.answerer == nil || !r.answerer.IsEnabled() {
		return Result{}, false
	}

	answer, err := r.answerer.Answer(ctx, utterance)
	if err != nil {
		r.logger.WithError(err).Warn("Retrieval-augmented answer failed")
		return Result{
			Answered: true,
			Answer:   "Sorry, I couldn't find an answer to that right now. Please try again later.",
		}, true
	}

	return Result{Answered: true, Answer: answer}, true
}
