package auth

// Adapter は資格情報の署名と検証を行う外部機能です。
// Verify は失敗時に domainerr.ErrUnauthorized を返します。
type Adapter interface {
	Sign(subject string) (string, error)
	Verify(token string) (string, error)
}
