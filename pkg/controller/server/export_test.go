package server

var (
	RefToBranchForTest      = refToBranch
	PushEventToInputForTest = pushEventToInput
)
