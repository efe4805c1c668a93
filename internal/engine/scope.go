package engine

// Scope embeds a child reducer in a parent.
//
//   - extract selects the child actions out of the parent action space;
//     any other action is ignored.
//   - get returns a pointer to the child state inside the parent. It may
//     return nil when the child is not presented, and the action is then
//     dropped.
//   - embed wraps child actions produced by effects back into the parent
//     action space.
//   - Every child cancel key and cancel scope is re-rooted under name, so
//     two instances of the same child never cancel each other.
//
// Scope adds no effects of its own.
func Scope[PS, PA, CS, CA any](
	name string,
	get func(*PS) *CS,
	extract func(PA) (CA, bool),
	embed func(CA) PA,
	child Reducer[CS, CA],
) Reducer[PS, PA] {
	return ReducerFunc[PS, PA](func(state *PS, action PA) []Effect[PA] {
		ca, ok := extract(action)
		if !ok {
			return nil
		}
		cs := get(state)
		if cs == nil {
			return nil
		}
		return MapEffects(child.Reduce(cs, ca), name, embed)
	})
}
