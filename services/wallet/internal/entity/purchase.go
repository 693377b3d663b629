package entity

import "readverse/pkg/entitlement"

type PurchaseResult struct {
	User   *entitlement.Entitlement `json:"user"`
	Wallet *Wallet                  `json:"wallet"`
}
