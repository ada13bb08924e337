package domain

type MetricsCollector interface {
	RecordVerdict(Verdict)
	RecordWorkerStart(workerID string)
	RecordWorkerStop(workerID string)
	RecordDispatch()
	RecordCandidates(extracted, unique int)
	RecordInputError(source string)
}
