package domain

// Operation enumerates everything a caller can ask the directory to do.
// The *_self variants apply when the target of the operation is the
// caller's own record.
type Operation string

const (
	OpReadSelf  Operation = "read_self"
	OpReadAny   Operation = "read_any"
	OpWriteSelf Operation = "write_self"
	OpWriteAny  Operation = "write_any"
	OpDeleteAny Operation = "delete_any"
	OpList      Operation = "list"
	OpSearch    Operation = "search"
)

// Can is the access decision: a pure function of role and operation.
// Admins may do everything; regular users may only read and update their
// own record. Unknown roles or operations are denied.
func Can(role Role, op Operation) bool {
	switch role {
	case RoleAdmin:
		switch op {
		case OpReadSelf, OpReadAny, OpWriteSelf, OpWriteAny, OpDeleteAny, OpList, OpSearch:
			return true
		}
	case RoleUser:
		return op == OpReadSelf || op == OpWriteSelf
	}
	return false
}

// ForTarget narrows a *_any read or write to its *_self variant when the
// caller is operating on its own record. Other operations pass through.
func (op Operation) ForTarget(actorID, targetID string) Operation {
	if targetID == "" || actorID != targetID {
		return op
	}
	switch op {
	case OpReadAny:
		return OpReadSelf
	case OpWriteAny:
		return OpWriteSelf
	}
	return op
}
