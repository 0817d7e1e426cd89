package domain

// SupabaseClient is the subset of Supabase used by the service: token
// validation for the auth middleware and bucket downloads for stored books.
type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)
	DownloadFile(bucket, path string) ([]byte, error)
}
