// Package widget implements the upload-and-predict flow as an explicit state
// machine. All I/O is injected: a Predictor for the HTTP call, a Previewer for
// preview references and an optional Recorder for history.
//
// A Widget is owned by one goroutine (the UI event loop). Predict runs the
// request inline; event loops split it into Begin, which they call on the
// loop, and Finish, which they call with the outcome once the request returns.
package widget

import (
	"context"
	"errors"
	"log"

	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/preview"
	"github.com/jask/realcheck/internal/upload"
)

var (
	ErrInvalidFileKind = errors.New("widget: file is not an image")
	ErrNoFile          = errors.New("widget: no file selected")
	ErrBusy            = errors.New("widget: prediction in flight")
)

// Notice texts.
const (
	NoticeInvalidFile  = "Please upload a valid image file."
	NoticePredictDone  = "Prediction complete"
	NoticePredictError = "Failed to predict"
)

// State is the UI state derived from the widget's fields.
type State int

const (
	Idle State = iota
	FileReady
	Predicting
	ResultShown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileReady:
		return "file-ready"
	case Predicting:
		return "predicting"
	case ResultShown:
		return "result-shown"
	default:
		return "unknown"
	}
}

// Predictor classifies an image.
type Predictor interface {
	Predict(ctx context.Context, f upload.File) (predict.Result, error)
}

// Previewer hands out and takes back preview references.
type Previewer interface {
	Create(f upload.File) (preview.Ref, error)
	Release(ref preview.Ref)
}

// Recorder receives every successful prediction.
type Recorder interface {
	Record(ctx context.Context, f upload.File, res predict.Result) error
}

// Notice is a transient message for the user.
type Notice struct {
	Text    string
	IsError bool
	Seq     uint64 // increments per notice so a UI can expire the right one
}

// Ticket identifies one in-flight request. Finish ignores tickets that no
// longer match the current selection.
type Ticket struct {
	seq  uint64
	File upload.File
}

type Option func(*Widget)

// WithRecorder stores successful predictions through r.
func WithRecorder(r Recorder) Option {
	return func(w *Widget) { w.recorder = r }
}

// WithContext sets the context handed to the Recorder.
func WithContext(ctx context.Context) Option {
	return func(w *Widget) { w.ctx = ctx }
}

// Widget is the upload-and-predict state machine.
type Widget struct {
	ctx       context.Context
	predictor Predictor
	previews  Previewer
	recorder  Recorder

	file     *upload.File
	preview  preview.Ref
	result   *predict.Result
	inFlight bool
	ticket   uint64
	notice   Notice
}

func New(p Predictor, pv Previewer, opts ...Option) *Widget {
	w := &Widget{ctx: context.Background(), predictor: p, previews: pv}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State derives the current UI state.
func (w *Widget) State() State {
	switch {
	case w.file == nil:
		return Idle
	case w.inFlight:
		return Predicting
	case w.result != nil:
		return ResultShown
	default:
		return FileReady
	}
}

// CanPredict is true iff a file is selected and no request is in flight.
func (w *Widget) CanPredict() bool { return w.file != nil && !w.inFlight }

// CanClear is true iff a file is selected.
func (w *Widget) CanClear() bool { return w.file != nil }

// File returns the selected file.
func (w *Widget) File() (upload.File, bool) {
	if w.file == nil {
		return upload.File{}, false
	}
	return *w.file, true
}

// Preview returns the live preview reference, empty when nothing is selected.
func (w *Widget) Preview() preview.Ref { return w.preview }

// Result returns the displayed prediction.
func (w *Widget) Result() (predict.Result, bool) {
	if w.result == nil {
		return predict.Result{}, false
	}
	return *w.result, true
}

// Notice returns the latest notice; Text is empty when none was raised.
func (w *Widget) Notice() Notice { return w.notice }

// AcceptFile replaces the selection with f. Non-images fail with
// ErrInvalidFileKind and leave everything but the notice untouched.
func (w *Widget) AcceptFile(f upload.File) error {
	if !f.IsImage() {
		w.notify(NoticeInvalidFile, true)
		return ErrInvalidFileKind
	}
	if w.inFlight {
		return ErrBusy
	}
	ref, err := w.previews.Create(f)
	if err != nil {
		// the file is fine to submit without a preview
		log.Printf("preview %s: %v", f.Name, err)
		ref = ""
	}
	w.releasePreview()
	w.file = &f
	w.preview = ref
	w.result = nil
	return nil
}

// Reset returns to Idle from any state. A request still in flight is
// abandoned: its outcome will not be applied.
func (w *Widget) Reset() {
	w.releasePreview()
	w.file = nil
	w.result = nil
	w.inFlight = false
	w.ticket++
}

// Begin enters Predicting and returns the ticket for the request the caller
// must now issue.
func (w *Widget) Begin() (Ticket, error) {
	if w.file == nil {
		return Ticket{}, ErrNoFile
	}
	if w.inFlight {
		return Ticket{}, ErrBusy
	}
	w.inFlight = true
	w.result = nil
	w.ticket++
	return Ticket{seq: w.ticket, File: *w.file}, nil
}

// Finish applies the outcome of the request identified by t and leaves
// Predicting. It reports false when the ticket is stale.
func (w *Widget) Finish(t Ticket, res predict.Result, err error) bool {
	if !w.inFlight || t.seq != w.ticket {
		return false
	}
	w.inFlight = false
	if err != nil {
		w.notify(failureText(err), true)
		return true
	}
	w.result = &res
	w.notify(NoticePredictDone, false)
	if w.recorder != nil {
		if rerr := w.recorder.Record(w.ctx, t.File, res); rerr != nil {
			log.Printf("record prediction for %s: %v", t.File.Name, rerr)
		}
	}
	return true
}

// Predict runs one request inline. Request failures are wrapped in
// *predict.RequestFailedError whatever the Predictor returned.
func (w *Widget) Predict(ctx context.Context) error {
	t, err := w.Begin()
	if err != nil {
		return err
	}
	res, err := w.predictor.Predict(ctx, t.File)
	err = asRequestFailed(err)
	w.Finish(t, res, err)
	return err
}

// Run issues the request for t. Event loops call it off the loop and hand
// the outcome back to Finish.
func (w *Widget) Run(ctx context.Context, t Ticket) (predict.Result, error) {
	res, err := w.predictor.Predict(ctx, t.File)
	return res, asRequestFailed(err)
}

// Close releases the preview reference.
func (w *Widget) Close() {
	w.Reset()
}

func (w *Widget) notify(text string, isErr bool) {
	w.notice = Notice{Text: text, IsError: isErr, Seq: w.notice.Seq + 1}
}

func (w *Widget) releasePreview() {
	if !w.preview.Empty() {
		w.previews.Release(w.preview)
		w.preview = ""
	}
}

func asRequestFailed(err error) error {
	if err == nil {
		return nil
	}
	var rf *predict.RequestFailedError
	if errors.As(err, &rf) {
		return err
	}
	return &predict.RequestFailedError{Err: err}
}

func failureText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return NoticePredictError
}
