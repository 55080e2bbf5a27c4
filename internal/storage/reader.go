package storage

type Reader struct {
	Accounts     IAccountTable
	Transactions ITransactionTable
	Holdings     IHoldingTable
	Trades       ITradeTable
}

func NewReader(unit Unit) *Reader {
	return &Reader{
		Accounts:     unit.Accounts(),
		Transactions: unit.Transactions(),
		Holdings:     unit.Holdings(),
		Trades:       unit.Trades(),
	}
}
