package domain

// Money is an amount in the smallest currency unit. All arithmetic on
// amounts is integer arithmetic; there is no floating point anywhere in
// the pricing path.
type Money int64
