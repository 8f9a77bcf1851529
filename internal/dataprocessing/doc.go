// Package dataprocessing cleans ledger auxiliary reports exported by the STAR
// accounting system. It turns decoded, header-less grids into one detail
// table with the account identifier stamped on every transaction row.
//
// # Architecture
//
// The pipeline runs in four steps, each taking the previous step's output:
//
// 1. Header location: the first rows are searched for a ledger header
// ("Account/Concept" with amounts) or a policy header ("Policy" with a
// concept, date or amount column). Without one, default names are used.
//
// 2. Row classification: rows are folded through an AccountContext.
// Structured account identifiers open a new account, summary lines without
// check, route or invoice references are marked, everything else is a
// detail row stamped with the active account.
//
// 3. Normalization: amounts become decimals, dates become DD/MM/YYYY, and
// rows without a nonzero amount, without concept text or without any data
// are removed.
//
// 4. Merging: per-account files take their account from the first data
// cell and are concatenated in upload order.
//
// # Usage
//
//	p, err := dataprocessing.NewReportProcessor(dataprocessing.DefaultOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	result, err := p.Process(grids, domain.ModeAuto)
package dataprocessing
