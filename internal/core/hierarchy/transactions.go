package hierarchy

import (
	"fmt"
	"strconv"

	"github.com/penwyp/go-winscope/internal/core/model"
)

const transactionsEntryName = "TransactionsEntry"

// TransactionsAdapter groups layer changes under their transaction
type TransactionsAdapter struct{}

func NewTransactionsAdapter() *TransactionsAdapter {
	return &TransactionsAdapter{}
}

func (a *TransactionsAdapter) TraceType() model.TraceType { return model.TraceTransactions }

func (a *TransactionsAdapter) Build(payload model.Payload) (*Node, error) {
	entry, ok := payload.(model.TransactionsEntry)
	if !ok {
		return nil, wrongPayload(a.TraceType(), payload)
	}

	root := &Node{
		ID:         "root",
		StableID:   transactionsEntryName + " root",
		Name:       transactionsEntryName,
		Kind:       transactionsEntryName,
		IsVisible:  true,
		Diff:       model.DiffNone,
		Properties: map[string]any{"vsyncId": entry.VsyncID},
	}

	for _, tx := range entry.Transactions {
		txNode := &Node{
			ID:        strconv.FormatInt(tx.ID, 10),
			StableID:  fmt.Sprintf("Transaction %d", tx.ID),
			Name:      fmt.Sprintf("Transaction %d", tx.ID),
			Kind:      "Transaction",
			IsVisible: true,
			Diff:      model.DiffNone,
			Properties: map[string]any{
				"id":  tx.ID,
				"pid": int64(tx.PID),
				"uid": int64(tx.UID),
			},
		}
		for _, change := range tx.LayerChanges {
			txNode.Children = append(txNode.Children, &Node{
				ID:         strconv.FormatInt(change.LayerID, 10),
				StableID:   fmt.Sprintf("Transaction %d layer %d %s", tx.ID, change.LayerID, change.What),
				Name:       fmt.Sprintf("Layer %d %s", change.LayerID, change.What),
				Kind:       "LayerChange",
				IsVisible:  true,
				Diff:       model.DiffNone,
				Properties: change.Properties,
			})
		}
		root.Children = append(root.Children, txNode)
	}
	return root, nil
}
