package domain

// RecruiterRole enumerates the roles allowed to move candidates.
type RecruiterRole string

const (
	RoleRecruiter  RecruiterRole = "RECRUITER"
	RoleHiringLead RecruiterRole = "HIRING_LEAD"
	RoleVerifier   RecruiterRole = "VERIFIER"
	RoleAdmin      RecruiterRole = "ADMIN"
)

// Actor identifies who performed a transition.
type Actor struct {
	ID             string
	Name           string
	OrganizationID string
	Role           RecruiterRole
}
