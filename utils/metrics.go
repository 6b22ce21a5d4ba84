package utils

import (
	"expvar"
)

var AnalysesTotal = expvar.NewInt("letter_analyses_total")
var AnalysesFailures = expvar.NewInt("letter_analyses_failures_total")
var ProviderFailures = expvar.NewInt("provider_failures_total")
var UploadsRejected = expvar.NewInt("uploads_rejected_total")
