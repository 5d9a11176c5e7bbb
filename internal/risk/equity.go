package risk

import "propcore/internal/models"

// Equity вычисляет текущее equity аккаунта.
//
// Формула (единственная во всём ядре, все компоненты обязаны
// вызывать именно её, а не пересчитывать самостоятельно):
//
//	equity = balance + Σ unrealizedPnl − Σ feesAccrued − Σ fundingAccrued
//
// RealizedPnl в формуле НЕ участвует: он уже свёрнут в balance
// внешним settlement'ом и повторное вычитание исказило бы equity.
//
// Функция чистая: одинаковые входы всегда дают одинаковый результат,
// побочных эффектов нет.
func Equity(acc *models.Account, positions []*models.Position) float64 {
	equity := acc.Balance
	for _, p := range positions {
		equity += p.UnrealizedPnl
		equity -= p.FeesAccrued
		equity -= p.FundingAccrued
	}
	return equity
}
