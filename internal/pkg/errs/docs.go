// Package errs provides the error taxonomy shared by the order coordinator.
//
// Every error kind follows the same pattern:
//   - a sentinel error variable (e.g., ErrConflict) usable with errors.Is
//   - a struct type carrying the details of the failure
//   - constructor functions, with and without a cause where it makes sense
//   - an Unwrap method returning the sentinel
//
// Kinds map onto the coordinator's contract as follows:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation
//   - ObjectNotFoundError: the referenced entity is absent
//   - ActionIsForbiddenError: the actor lacks rights over the entity
//   - TransitionIsInvalidError: the requested state change is not permitted
//   - ConflictError: a conditional write lost a race
//   - TimeoutError: a storage call was aborted by the caller's deadline
package errs
