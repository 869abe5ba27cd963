// Package courier contains the Courier aggregate.
//
// A courier's presence (online flag) mirrors its live connection: it flips
// true on a successful join and false on disconnect or block. The
// notification mode controls which restaurants' orders reach the courier;
// the counterpart restaurant-side filter lives in the restaurant package,
// and the intersection of both is computed by the preference resolver in
// the services package.
package courier
