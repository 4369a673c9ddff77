package errorx

var Unknown = Error{Code: 100000, Message: "Request failed"}
