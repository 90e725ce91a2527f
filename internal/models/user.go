package models

// UserRole represents the roles issued by the tournament auth service.
type UserRole string

const (
	RoleAdmin           UserRole = "ADMIN"
	RoleHeadReferee     UserRole = "HEAD_REFEREE"
	RoleAllianceReferee UserRole = "ALLIANCE_REFEREE"
	RoleTeamLeader      UserRole = "TEAM_LEADER"
	RoleTeamMember      UserRole = "TEAM_MEMBER"
	RoleCommon          UserRole = "COMMON"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
