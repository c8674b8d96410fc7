package llm

// ExtractionPrompt instructs a vision model to transcribe job screenshots.
const ExtractionPrompt = `You are reading screenshots of a field-service engineer's job list for one day.

Return a single JSON object with exactly two keys:

"dataTable": a pipe-delimited table as one string. The first line is the day
heading exactly as shown (for example "Thursday, Nov 13"). Then a header row
and one row per job, in the order shown, with these nine columns:
Time | Address | Product Code | Product Type | Product Brand | Fault | Error Code | Production Year | Serial Number
Leave a cell empty when the value is not visible. Keep the full address,
including the postcode, in the Address cell on one line.

"notifications": an array with one short, polite text message per job, in the
same order as the table rows, telling the customer when the engineer will
arrive. Each message must contain the token {{TIME_SLOT}} exactly once where
the arrival window belongs. Do not invent times.

Respond with the JSON object only.`

// UserInstruction accompanies the images in the user turn.
const UserInstruction = "Extract the job table and customer notifications from these screenshots."
