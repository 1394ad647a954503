/*
	Package oddeven sorts an array of int32 spread over the ranks of an mpi.Comm
	with odd-even transposition.

	Every rank owns one equal, contiguous partition. In each round a rank is
	paired with a neighbour according to the parity of the round: the left rank
	of a pair receives the first chunk of its right neighbour's partition, sorts
	its own partition together with that chunk, keeps the smallest values and
	sends the largest back. The last rank sorts its whole partition in the rounds
	where it has no partner. After each round the number of swaps is summed on
	rank 0, which stops the loop on the first even round (after round 0) whose
	total is zero, and broadcasts that decision.
*/
package oddeven
