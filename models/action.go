package models

// Action names a requested roadmap lifecycle transition.
type Action string

const (
	ActionSubmit         Action = "submit"
	ActionApprove        Action = "approve"
	ActionRequestChanges Action = "request-changes"
	ActionApproveDraft   Action = "approve-draft"
	ActionEdit           Action = "edit"
)

func (a Action) Valid() bool {
	switch a {
	case ActionSubmit, ActionApprove, ActionRequestChanges, ActionApproveDraft, ActionEdit:
		return true
	}
	return false
}

// StatusReason tells a creator why their roadmap changed state.
type StatusReason string

const (
	ReasonApproved              StatusReason = "approved"
	ReasonChangesRequested      StatusReason = "changes-requested"
	ReasonDraftChangesRequested StatusReason = "draft-changes-requested"
	ReasonDraftApproved         StatusReason = "draft-approved"
)
