package tui

import (
	"github.com/jask/realcheck/internal/database/repository"
	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/upload"
	"github.com/jask/realcheck/internal/widget"
)

type fileOpenedMsg struct {
	path string
	file upload.File
	err  error
}

type predictDoneMsg struct {
	ticket widget.Ticket
	res    predict.Result
	err    error
}

type noticeExpiredMsg struct {
	seq uint64
}

type historyLoadedMsg struct {
	rows []repository.Prediction
	err  error
}
