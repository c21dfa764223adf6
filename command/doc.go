// Package command reads server command replies through lazy document views.
//
// Result answers the questions every caller asks of a reply (did it succeed,
// and if not, why) without decoding the rest of it:
//
//	res, err := command.ParseResult(reply)
//	if err != nil {
//	    return err
//	}
//	if err := res.Err(); err != nil {
//	    return err // *command.CommandError, errors.Is(err, errs.ErrCommandFailed)
//	}
//
// MapReduceOutput interprets a mapReduce reply, inline or written to a collection.
package command
