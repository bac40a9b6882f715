package user

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type SessionIssuer interface {
	IssueToken(user User) (SessionToken, error)
	ParseToken(token SessionToken) (ID, error)
}
