package domain

// Pet - питомец клиента. Type (вид) и Breed (порода) используются только как ключ группировки отчётов.
type Pet struct {
	ID       int64
	ClientID int64
	Name     string
	Type     string
	Breed    string
}
