package shared

// Asynq task types and queue names shared between the API and the worker.
const (
	TypeSendSecretCodeEmail = "email:secret_code"
	TypeDeleteCoupleImages  = "couple:delete_images"
	TypePurgeRejected       = "couple:purge_rejected"

	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// SecretCodeEmailPayload is queued after a submission is recorded.
type SecretCodeEmailPayload struct {
	Email      string `json:"email"`
	Names      string `json:"names"`
	SecretCode string `json:"secretCode"`
	Slug       string `json:"slug"`
}

// DeleteCoupleImagesPayload removes all photo renditions for a submission.
type DeleteCoupleImagesPayload struct {
	CoupleID string `json:"coupleId"`
}

// PurgeRejectedPayload is empty; the cutoff is computed by the handler.
type PurgeRejectedPayload struct{}
