package errorx

type Code int

const (
	// Common codes
	BadRequest       Code = 100001
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007

	// Assignment codes
	TrainerAtCapacity Code = 200001
	AlreadyAssigned   Code = 200002
	NotAssigned       Code = 200003

	// Battle codes
	SameTrainer    Code = 300001
	NoPokemons     Code = 300002
	CreationFailed Code = 300003
	DeletionFailed Code = 300004

	// Ranking codes
	UpdatePointsFailed Code = 400001
)
