package model

// DelegateGrants timmie -> инструкторы, разрешившие ему запись от своего имени
type DelegateGrants map[int64][]int64
